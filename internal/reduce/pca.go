package reduce

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCAReducer implements the linear variance-maximizing projection. It has
// no randomized step, so its output is bit-for-bit reproducible.
type PCAReducer struct{}

// NewPCAReducer creates a new PCA reducer.
func NewPCAReducer() *PCAReducer {
	return &PCAReducer{}
}

// Name returns the reducer name.
func (r *PCAReducer) Name() string {
	return "pca"
}

// Reduce performs PCA via SVD of the centered matrix and projects onto the
// first Components principal components. When the input has fewer columns
// or rows than Components, the missing coordinates are zero.
func (r *PCAReducer) Reduce(X *mat.Dense) ([][]float64, error) {
	n, d := X.Dims()
	if n == 0 {
		return nil, fmt.Errorf("pca: empty input")
	}

	dims := Components
	if dims > d {
		dims = d
	}
	if dims > n {
		dims = n
	}

	// Center each column on its mean.
	means := make([]float64, d)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, X)
		means[j] = stat.Mean(col, nil)
	}
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, X.At(i, j)-means[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("pca: SVD factorization failed")
	}

	var v mat.Dense
	svd.VTo(&v)

	vReduced := v.Slice(0, d, 0, dims).(*mat.Dense)
	projected := mat.NewDense(n, dims, nil)
	projected.Mul(centered, vReduced)

	coords := make([][]float64, n)
	for i := 0; i < n; i++ {
		coords[i] = make([]float64, Components)
		for j := 0; j < dims; j++ {
			coords[i][j] = projected.At(i, j)
		}
	}
	return coords, nil
}
