package reduce

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// UMAPConfig holds hyperparameters for the manifold projection. The
// defaults are tuned for small, sparse keyword-weight vectors: a small
// neighborhood (tens of topics, not thousands), cosine similarity (direction
// matters more than magnitude for weighted term vectors), and zero minimum
// distance so near-duplicate topics may collapse into tight clusters.
type UMAPConfig struct {
	NNeighbors         int
	MinDist            float64
	Spread             float64
	NEpochs            int
	LearningRate       float64
	NegativeSampleRate int
	Seed               int64
}

// DefaultUMAPConfig returns the tuned hyperparameters.
func DefaultUMAPConfig() UMAPConfig {
	return UMAPConfig{
		NNeighbors:         5,
		MinDist:            0.0,
		Spread:             1.0,
		NEpochs:            200,
		LearningRate:       1.0,
		NegativeSampleRate: 5,
		Seed:               Seed,
	}
}

// UMAPReducer implements the density-preserving manifold projection.
type UMAPReducer struct {
	cfg UMAPConfig
}

// NewUMAPReducer creates a UMAP reducer with the given hyperparameters.
func NewUMAPReducer(cfg UMAPConfig) *UMAPReducer {
	return &UMAPReducer{cfg: cfg}
}

// Name returns the reducer name.
func (r *UMAPReducer) Name() string {
	return "umap"
}

// Reduce embeds the rows of X into Components dimensions. The whole pass is
// driven by RNGs seeded from the configured constant, so identical input
// yields identical output.
func (r *UMAPReducer) Reduce(X *mat.Dense) ([][]float64, error) {
	n, d := X.Dims()
	if n == 0 {
		return nil, fmt.Errorf("umap: empty input")
	}

	k := r.cfg.NNeighbors
	if k >= n {
		k = n - 1
	}
	if k < 1 {
		// A single topic has no neighborhood structure to preserve.
		return firstColumns(X, n, d), nil
	}

	rows := denseRows(X)

	neighbors, dists := nearestNeighbors(rows, k)
	sigmas, rhos := smoothDistances(dists, float64(k))
	graph := membershipGraph(neighbors, dists, sigmas, rhos)

	a, b := fitCurve(r.cfg.Spread, r.cfg.MinDist)

	rng := rand.New(rand.NewSource(r.cfg.Seed))
	embedding := make([][]float64, n)
	for i := range embedding {
		embedding[i] = make([]float64, Components)
		for j := range embedding[i] {
			embedding[i][j] = (rng.Float64() - 0.5) * 10
		}
	}

	optimize(embedding, graph, a, b, r.cfg, rand.New(rand.NewSource(r.cfg.Seed+1)))
	return embedding, nil
}

// edge is one weighted entry of the fuzzy neighborhood graph.
type edge struct {
	from   int
	to     int
	weight float64
}

func denseRows(X *mat.Dense) [][]float64 {
	n, d := X.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, d)
		mat.Row(rows[i], i, X)
	}
	return rows
}

// cosineDistance is 1 minus the cosine similarity. Zero-norm vectors are
// treated as maximally distant from everything.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim > 1 {
		sim = 1
	}
	return 1 - sim
}

// nearestNeighbors finds the k nearest rows to each row by cosine distance,
// brute force. Topic counts are tens of rows, so O(n^2) is fine.
func nearestNeighbors(rows [][]float64, k int) (indices [][]int, dists [][]float64) {
	n := len(rows)
	indices = make([][]int, n)
	dists = make([][]float64, n)

	type candidate struct {
		dist float64
		idx  int
	}

	for i := 0; i < n; i++ {
		candidates := make([]candidate, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			candidates = append(candidates, candidate{cosineDistance(rows[i], rows[j]), j})
		}
		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].dist != candidates[b].dist {
				return candidates[a].dist < candidates[b].dist
			}
			return candidates[a].idx < candidates[b].idx
		})

		indices[i] = make([]int, k)
		dists[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			indices[i][j] = candidates[j].idx
			dists[i][j] = candidates[j].dist
		}
	}
	return indices, dists
}

// smoothDistances finds per-point bandwidth sigma and connectivity distance
// rho, binary-searching sigma so the fuzzy membership sum hits log2(k).
func smoothDistances(dists [][]float64, k float64) (sigmas, rhos []float64) {
	const (
		iterations = 64
		tolerance  = 1e-5
		minScale   = 1e-3
	)

	n := len(dists)
	sigmas = make([]float64, n)
	rhos = make([]float64, n)
	target := math.Log2(k)

	for i := 0; i < n; i++ {
		row := dists[i]

		for _, d := range row {
			if d > 0 {
				rhos[i] = d
				break
			}
		}

		lo, hi, mid := 0.0, math.Inf(1), 1.0
		for iter := 0; iter < iterations; iter++ {
			sum := 0.0
			for _, d := range row {
				if shifted := d - rhos[i]; shifted > 0 {
					sum += math.Exp(-shifted / mid)
				} else {
					sum++
				}
			}
			if math.Abs(sum-target) < tolerance {
				break
			}
			if sum > target {
				hi = mid
				mid = (lo + hi) / 2
			} else {
				lo = mid
				if math.IsInf(hi, 1) {
					mid *= 2
				} else {
					mid = (lo + hi) / 2
				}
			}
		}
		sigmas[i] = mid

		var meanDist float64
		for _, d := range row {
			meanDist += d
		}
		if len(row) > 0 {
			meanDist /= float64(len(row))
		}
		if floor := minScale * meanDist; sigmas[i] < floor {
			sigmas[i] = floor
		}
	}
	return sigmas, rhos
}

// membershipGraph converts neighbor distances to fuzzy membership strengths
// and symmetrizes them with the fuzzy set union a + b - ab. Edges come out
// sorted so the downstream SGD walks them in a reproducible order.
func membershipGraph(indices [][]int, dists [][]float64, sigmas, rhos []float64) []edge {
	type key struct{ from, to int }
	strengths := make(map[key]float64)

	for i := range indices {
		for j, neighbor := range indices[i] {
			var w float64
			if shifted := dists[i][j] - rhos[i]; shifted <= 0 || sigmas[i] == 0 {
				w = 1
			} else {
				w = math.Exp(-shifted / sigmas[i])
			}
			strengths[key{i, neighbor}] = w
		}
	}

	merged := make(map[key]float64, len(strengths))
	for k1, w := range strengths {
		wt := strengths[key{k1.to, k1.from}]
		if union := w + wt - w*wt; union > 0 {
			merged[k1] = union
		}
	}

	edges := make([]edge, 0, len(merged))
	for k1, w := range merged {
		edges = append(edges, edge{k1.from, k1.to, w})
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].from != edges[b].from {
			return edges[a].from < edges[b].from
		}
		return edges[a].to < edges[b].to
	})
	return edges
}

// fitCurve fits 1/(1 + a*x^(2b)) to the target membership curve for the
// configured spread and minimum distance, by grid search.
func fitCurve(spread, minDist float64) (a, b float64) {
	const points = 300

	xs := make([]float64, points)
	ys := make([]float64, points)
	for i := 0; i < points; i++ {
		xs[i] = float64(i) / float64(points-1) * spread * 3
		if xs[i] < minDist {
			ys[i] = 1
		} else {
			ys[i] = math.Exp(-(xs[i] - minDist) / spread)
		}
	}

	bestA, bestB, bestErr := 1.0, 1.0, math.Inf(1)
	for ca := 0.1; ca <= 10.0; ca += 0.1 {
		for cb := 0.1; cb <= 2.0; cb += 0.05 {
			var sumSq float64
			for i := 0; i < points; i++ {
				diff := 1/(1+ca*math.Pow(xs[i], 2*cb)) - ys[i]
				sumSq += diff * diff
			}
			if sumSq < bestErr {
				bestErr = sumSq
				bestA, bestB = ca, cb
			}
		}
	}
	return bestA, bestB
}

// optimize refines the embedding by SGD over the graph edges: attraction
// along edges, repulsion against negative samples.
func optimize(embedding [][]float64, edges []edge, a, b float64, cfg UMAPConfig, rng *rand.Rand) {
	n := len(embedding)
	if len(edges) == 0 || n < 2 {
		return
	}

	maxWeight := 0.0
	for _, e := range edges {
		if e.weight > maxWeight {
			maxWeight = e.weight
		}
	}
	if maxWeight == 0 {
		maxWeight = 1
	}

	epochsPerSample := make([]float64, len(edges))
	nextSample := make([]float64, len(edges))
	for i, e := range edges {
		if e.weight > 0 {
			epochsPerSample[i] = maxWeight / e.weight
			if epochsPerSample[i] < 1 {
				epochsPerSample[i] = 1
			}
		} else {
			epochsPerSample[i] = float64(cfg.NEpochs) + 1
		}
		nextSample[i] = epochsPerSample[i]
	}

	negatives := cfg.NegativeSampleRate
	if negatives < 1 {
		negatives = 1
	}

	for epoch := 0; epoch < cfg.NEpochs; epoch++ {
		alpha := cfg.LearningRate * (1 - float64(epoch)/float64(cfg.NEpochs))
		if alpha < 1e-4 {
			alpha = 1e-4
		}

		for i, e := range edges {
			if nextSample[i] > float64(epoch) {
				continue
			}

			current, other := embedding[e.from], embedding[e.to]
			if distSq := squaredDistance(current, other); distSq > 0 {
				grad := -2 * a * b * math.Pow(distSq, b-1)
				grad /= a*math.Pow(distSq, b) + 1
				for d := range current {
					current[d] += clipGradient(grad*(current[d]-other[d])) * alpha
				}
			}

			for s := 0; s < negatives; s++ {
				neg := rng.Intn(n)
				if neg == e.from {
					continue
				}
				distSq := squaredDistance(current, embedding[neg])
				var grad float64
				if distSq > 0.001 {
					grad = 2 * b / ((0.001 + distSq) * (a*math.Pow(distSq, b) + 1))
				}
				if grad > 0 {
					for d := range current {
						current[d] += clipGradient(grad*(current[d]-embedding[neg][d])) * alpha
					}
				}
			}

			nextSample[i] += epochsPerSample[i]
		}
	}
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func clipGradient(v float64) float64 {
	if v > 4 {
		return 4
	}
	if v < -4 {
		return -4
	}
	return v
}

// firstColumns falls back to the raw leading matrix columns when there is
// no neighborhood structure to optimize.
func firstColumns(X *mat.Dense, n, d int) [][]float64 {
	coords := make([][]float64, n)
	for i := 0; i < n; i++ {
		coords[i] = make([]float64, Components)
		for j := 0; j < Components && j < d; j++ {
			coords[i][j] = X.At(i, j)
		}
	}
	return coords
}
