package detector

import (
	"errors"
	"math"
	"math/rand"
)

// isolationForest is an unsupervised outlier model: it grows randomized
// binary trees over subsamples of the data and scores each point by how
// few splits are needed to isolate it. Points isolated unusually quickly
// are outliers.
type isolationForest struct {
	numTrees   int
	sampleSize int
	rng        *rand.Rand
	trees      []*isoNode
}

// isoNode is one node of an isolation tree. Leaves record the number of
// samples that reached them; internal nodes split on a random dimension at
// a random value.
type isoNode struct {
	splitDim int
	splitVal float64
	left     *isoNode
	right    *isoNode
	size     int
}

func newIsolationForest(numTrees, sampleSize int, seed int64) *isolationForest {
	return &isolationForest{
		numTrees:   numTrees,
		sampleSize: sampleSize,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Fit grows the forest over X. Each tree is built from a random subsample
// of at most sampleSize rows, height-limited to ceil(log2(sampleSize)).
func (f *isolationForest) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("no vectors to fit")
	}
	sample := f.sampleSize
	if sample > len(X) {
		sample = len(X)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sample))))
	if maxDepth < 1 {
		maxDepth = 1
	}

	f.trees = make([]*isoNode, f.numTrees)
	indices := make([]int, len(X))
	for i := range indices {
		indices[i] = i
	}
	for t := 0; t < f.numTrees; t++ {
		f.rng.Shuffle(len(indices), func(a, b int) {
			indices[a], indices[b] = indices[b], indices[a]
		})
		subset := make([][]float64, sample)
		for i := 0; i < sample; i++ {
			subset[i] = X[indices[i]]
		}
		f.trees[t] = f.grow(subset, 0, maxDepth)
	}
	return nil
}

func (f *isolationForest) grow(X [][]float64, depth, maxDepth int) *isoNode {
	if depth >= maxDepth || len(X) <= 1 {
		return &isoNode{size: len(X)}
	}

	dims := len(X[0])
	// Try a few random dimensions before concluding the subset is constant.
	for attempt := 0; attempt < dims && attempt < 8; attempt++ {
		dim := f.rng.Intn(dims)
		min, max := X[0][dim], X[0][dim]
		for _, row := range X {
			if row[dim] < min {
				min = row[dim]
			}
			if row[dim] > max {
				max = row[dim]
			}
		}
		if max == min {
			continue
		}

		split := min + f.rng.Float64()*(max-min)
		var left, right [][]float64
		for _, row := range X {
			if row[dim] < split {
				left = append(left, row)
			} else {
				right = append(right, row)
			}
		}
		return &isoNode{
			splitDim: dim,
			splitVal: split,
			left:     f.grow(left, depth+1, maxDepth),
			right:    f.grow(right, depth+1, maxDepth),
			size:     len(X),
		}
	}
	return &isoNode{size: len(X)}
}

// DecisionValues returns one decision value per row of X: 0.5 minus the
// anomaly score, so lower values mean more anomalous (matching the usual
// decision-function convention).
func (f *isolationForest) DecisionValues(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = 0.5 - f.score(row)
	}
	return out
}

// score computes the anomaly score in (0, 1): 2^(-E[pathLen]/c(n)).
func (f *isolationForest) score(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var total float64
	for _, tree := range f.trees {
		total += pathLength(tree, row, 0)
	}
	mean := total / float64(len(f.trees))

	sample := f.sampleSize
	c := avgPathLength(sample)
	if c == 0 {
		return 0
	}
	return math.Pow(2, -mean/c)
}

func pathLength(n *isoNode, row []float64, depth float64) float64 {
	if n.left == nil && n.right == nil {
		// Unresolved leaf: add the expected remaining path length.
		return depth + avgPathLength(n.size)
	}
	if row[n.splitDim] < n.splitVal {
		return pathLength(n.left, row, depth+1)
	}
	return pathLength(n.right, row, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649 // harmonic number approximation
	return 2*h - 2*float64(n-1)/float64(n)
}
