package matrix_test

import (
	"testing"

	"github.com/katalvlaran/agora/matrix"
)

// benchRatings fills an n×m matrix with a deterministic ±1/0 pattern and an
// observation mask with roughly two thirds of the cells present.
func benchRatings(b *testing.B, n, m int) (*matrix.Dense, []bool) {
	b.Helper()
	x, err := matrix.NewDense(n, m)
	if err != nil {
		b.Fatalf("NewDense: %v", err)
	}
	mask := make([]bool, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if (i+j)%3 == 0 {
				continue
			}
			mask[i*m+j] = true
			_ = x.Set(i, j, float64((i*7+j*3)%3-1))
		}
	}

	return x, mask
}

// BenchmarkCovariance_1000x100 measures the masked covariance pass.
func BenchmarkCovariance_1000x100(b *testing.B) {
	x, mask := benchRatings(b, 1000, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := matrix.Covariance(x, mask); err != nil {
			b.Fatalf("Covariance: %v", err)
		}
	}
}

// BenchmarkTopEigenpairs_100 measures the power-iteration path used by PCA.
func BenchmarkTopEigenpairs_100(b *testing.B) {
	x, mask := benchRatings(b, 1000, 100)
	cov, _, err := matrix.Covariance(x, mask)
	if err != nil {
		b.Fatalf("Covariance: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = matrix.TopEigenpairs(cov, 2, 1e-9, 2000)
	}
}

// BenchmarkEigen_50 measures the Jacobi fallback on a 50×50 covariance.
func BenchmarkEigen_50(b *testing.B) {
	x, mask := benchRatings(b, 500, 50)
	cov, _, err := matrix.Covariance(x, mask)
	if err != nil {
		b.Fatalf("Covariance: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err = matrix.Eigen(cov, 1e-9, 200000); err != nil {
			b.Fatalf("Eigen: %v", err)
		}
	}
}
