// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrTaskPanic = constError("task panicked")

const errJobDone = constError("job done")
