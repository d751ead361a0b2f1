package chimera

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/dsp"
	"gonum.org/v1/gonum/floats"
)

const defaultKMeansIterations = 50

// KMeans assigns every point to one of k clusters. Centroids are seeded
// farthest-first from the first point so the result is deterministic.
func KMeans(points [][]float64, k int, maxIterations int) ([]int, error) {
	if k < 1 {
		return nil, errors.Wrapf(dsp.ErrBadParameter, "k must be positive, got %d", k)
	}
	if maxIterations < 1 {
		return nil, errors.Wrapf(dsp.ErrBadParameter, "max iterations must be positive, got %d", maxIterations)
	}
	if len(points) < k {
		return nil, errors.Wrapf(dsp.ErrBadParameter, "%d points cannot form %d clusters", len(points), k)
	}

	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, errors.Wrapf(dsp.ErrShapeMismatch, "point %d has %d dimensions, expected %d", i, len(p), dim)
		}
	}

	centroids := seedCentroids(points, k)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	counts := make([]int, k)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range centroids {
			for d := range centroids[c] {
				centroids[c][d] = 0
			}
			counts[c] = 0
		}
		for i, p := range points {
			floats.Add(centroids[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centroids {
			// an emptied cluster keeps a zero centroid
			if counts[c] > 0 {
				floats.Scale(1/float64(counts[c]), centroids[c])
			}
		}
	}

	return labels, nil
}

func seedCentroids(points [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[0]...))

	minDist := make([]float64, len(points))
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		farthest := 0
		for i, p := range points {
			if d := floats.Distance(p, last, 2); d < minDist[i] {
				minDist[i] = d
			}
			if minDist[i] > minDist[farthest] {
				farthest = i
			}
		}
		centroids = append(centroids, append([]float64(nil), points[farthest]...))
	}

	return centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
