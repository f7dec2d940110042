package numeric

import (
	"math"
	"slices"
)

// Average returns the mean of xs rounded to DefaultPlaces, or 0 for no values.
func Average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return Round(sum/float64(len(xs)), DefaultPlaces)
}

// MovingAverage averages a causal window ending at each index. The first
// window-1 outputs use the shorter windows available.
func MovingAverage(xs []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(xs))
	for i := range xs {
		start := max(0, i-window+1)
		out[i] = Average(xs[start : i+1])
	}
	return out
}

// Median returns the middle value of xs (mean of the two middle values for
// an even count) or NaN when xs is empty.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// RelativeFrequencies maps each distinct value to its share of xs.
func RelativeFrequencies(xs []float64) map[float64]float64 {
	freq := make(map[float64]float64)
	if len(xs) == 0 {
		return freq
	}
	counts := make(map[float64]int)
	for _, x := range xs {
		counts[x]++
	}
	for x, c := range counts {
		freq[x] = float64(c) / float64(len(xs))
	}
	return freq
}

// Chunk splits xs into consecutive groups of size; the last group may be shorter.
func Chunk[T any](xs []T, size int) [][]T {
	if size < 1 {
		return nil
	}
	chunks := make([][]T, 0, (len(xs)+size-1)/size)
	for i := 0; i < len(xs); i += size {
		chunks = append(chunks, xs[i:min(i+size, len(xs))])
	}
	return chunks
}

func Flatten[T any](xss [][]T) []T {
	var out []T
	for _, xs := range xss {
		out = append(out, xs...)
	}
	return out
}
