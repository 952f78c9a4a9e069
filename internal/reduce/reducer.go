// Package reduce projects the keyword-weight matrix down to the three
// coordinates used by the topic map.
package reduce

import (
	"gonum.org/v1/gonum/mat"
)

// Components is the output dimensionality of every reducer.
const Components = 3

// Seed fixes all randomized steps so repeated runs against identical input
// are reproducible.
const Seed int64 = 42

// Reducer is a single interchangeable reduction strategy.
type Reducer interface {
	// Reduce maps each row of X to a Components-dimensional coordinate,
	// preserving row order. X must have at least one row.
	Reduce(X *mat.Dense) ([][]float64, error)
	Name() string
}

// Select resolves the reduction strategy once at startup. The manifold
// method is preferred; the linear method serves as the explicit fallback
// and can be forced by name.
func Select(method string) Reducer {
	switch method {
	case "pca":
		return NewPCAReducer()
	case "umap", "", "auto":
		return NewUMAPReducer(DefaultUMAPConfig())
	default:
		return NewUMAPReducer(DefaultUMAPConfig())
	}
}
