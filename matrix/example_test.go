package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/agora/matrix"
)

// ExampleCovariance centers a small rating table, where two columns always
// move in opposite directions, and prints its dominant variance direction.
func ExampleCovariance() {
	x, _ := matrix.NewDenseRows([][]float64{
		{1, -1},
		{-1, 1},
		{1, -1},
		{-1, 1},
	})
	cov, _, _ := matrix.Covariance(x, nil)
	vals, vecs, _ := matrix.TopEigenpairs(cov, 1, 1e-10, 100)
	fmt.Printf("lambda=%.4f v=[%.4f %.4f]\n", vals[0], vecs[0][0], vecs[0][1])
	// Output:
	// lambda=2.6667 v=[0.7071 -0.7071]
}
