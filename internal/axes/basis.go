package axes

import (
	"math"

	"graphfield/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// basis holds the three pixel-space (y-down) directions as columns: lower
// left, lower right and up.
var basis = mat.NewDense(2, 3, []float64{
	-math.Sqrt(3) / 2, math.Sqrt(3) / 2, 0,
	0.5, 0.5, -1,
})

// Direction returns the pixel-space vector selected by a definition, in
// arrow lengths. It is not normalized: (1,-1,0) is sqrt(3) long and
// (1,1,1) or (0,0,0) give the zero vector.
func Direction(def [3]int) geometry.Point2D {
	d := mat.NewVecDense(3, []float64{float64(def[0]), float64(def[1]), float64(def[2])})
	var v mat.VecDense
	v.MulVec(basis, d)
	return geometry.NewPoint2D(v.AtVec(0), v.AtVec(1))
}
