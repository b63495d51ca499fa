package physics

import "errors"

var (
	// ErrSingularity indicates two bodies at zero separation.
	ErrSingularity = errors.New("physics: coincident bodies (zero separation)")

	// ErrUnstable indicates a non-finite acceleration after an evaluator pass.
	ErrUnstable = errors.New("physics: non-finite acceleration")
)
