// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package driver

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrInvalidConfig = constError("invalid config")
const ErrNoMatrices = constError("no matrix files found")
const ErrCompile = constError("compile failed")
const ErrRun = constError("run failed")
