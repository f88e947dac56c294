// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package chart

type constError string

func (e constError) Error() string {
	return string(e)
}

const ErrNothingToPlot = constError("nothing to plot")

const errNonPositiveWidth = constError("bar width was not positive")
