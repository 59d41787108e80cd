package transform

import "fmt"

// DistortedTransformError reports a matrix whose transformed unit basis
// vectors are not orthogonal, or that mirrors the plane. Such a matrix has
// no rotation/uniform-scale/translation form.
type DistortedTransformError struct {
	InnerProduct float64
	Determinant  float64
}

func (e *DistortedTransformError) Error() string {
	if e.Determinant < 0 {
		return fmt.Sprintf("transform: matrix mirrors the plane (determinant %g)", e.Determinant)
	}
	return fmt.Sprintf("transform: matrix is distorted, basis inner product %g", e.InnerProduct)
}

// AnisotropicScaleError reports a matrix that scales x and y by different
// amounts.
type AnisotropicScaleError struct {
	ScaleX, ScaleY float64
}

func (e *AnisotropicScaleError) Error() string {
	return fmt.Sprintf("transform: non-uniform scale %g x %g", e.ScaleX, e.ScaleY)
}
