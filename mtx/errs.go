// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package mtx

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrMalformedHeader = constError("malformed matrix market header")
const ErrTooManyNonzeros = constError("nonzeros per row exceeds matrix size")
const ErrInvalidShape = constError("invalid matrix shape")
const ErrEntryOutOfRange = constError("entry out of range")
const ErrEntryCount = constError("entry count does not match header")
