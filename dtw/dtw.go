// Package dtw provides Dynamic Time Warping distance and alignment-path
// computation for NDVI trajectory classification.
//
// DTW finds the minimal cumulative squared-difference cost to align two
// sequences by stretching/compressing their time axes.
package dtw

import "math"

// DTW computes the DTW distance between sequences a and b, and
// optionally returns the alignment path if opts.ReturnPath=true.
//
// The per-cell local cost is the squared difference (a[i]-b[j])^2. The
// cumulative cost matrix's first row and column are seeded by running
// sums along the boundary (not infinity): aligning a length-1 prefix of
// one sequence against a growing prefix of the other is always
// permitted, matching the reference classifier's boundary convention.
//
// Time complexity:    O(N*M) where N=len(a), M=len(b).
// Memory complexity:  O(M) for TwoRows, O(N*M) for FullMatrix.
func DTW(a, b []float64, opts *Options) (dist float64, path []Coord, err error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptyInput
	}
	if err = opts.Validate(); err != nil {
		return 0, nil, err
	}

	mode := opts.MemoryMode
	needPath := opts.ReturnPath

	if mode == FullMatrix {
		dp := buildFullMatrix(a, b)
		dist = dp[n-1][m-1]
		if needPath {
			path, err = backtrack(dp)
		}

		return dist, path, err
	}

	dist = twoRowDistance(a, b)

	return dist, nil, nil
}

// cost is the local squared-difference cost between a[i] and b[j].
func cost(a, b []float64, i, j int) float64 {
	d := a[i] - b[j]

	return d * d
}

// twoRowDistance computes the final DTW distance using only two rolling
// rows of the cumulative cost matrix.
func twoRowDistance(a, b []float64) float64 {
	n, m := len(a), len(b)
	prevRow := make([]float64, m)
	currRow := make([]float64, m)

	prevRow[0] = cost(a, b, 0, 0)
	for j := 1; j < m; j++ {
		prevRow[j] = prevRow[j-1] + cost(a, b, 0, j)
	}

	for i := 1; i < n; i++ {
		currRow[0] = prevRow[0] + cost(a, b, i, 0)
		for j := 1; j < m; j++ {
			currRow[j] = cost(a, b, i, j) + minOf3(prevRow[j], currRow[j-1], prevRow[j-1])
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[m-1]
}

// buildFullMatrix computes the complete NxM cumulative cost matrix.
func buildFullMatrix(a, b []float64) [][]float64 {
	n, m := len(a), len(b)
	dp := make([][]float64, n)
	for i := range dp {
		dp[i] = make([]float64, m)
	}

	dp[0][0] = cost(a, b, 0, 0)
	for j := 1; j < m; j++ {
		dp[0][j] = dp[0][j-1] + cost(a, b, 0, j)
	}
	for i := 1; i < n; i++ {
		dp[i][0] = dp[i-1][0] + cost(a, b, i, 0)
	}
	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			dp[i][j] = cost(a, b, i, j) + minOf3(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
		}
	}

	return dp
}

// backtrack reconstructs the alignment path by walking from (N-1,M-1)
// back to (0,0), at each step choosing the neighbouring cell with the
// lowest cumulative cost. Ties between candidate predecessors are
// broken in a fixed priority: up, then left, then diagonal. The
// returned path is in forward order with 1-based coordinates, (1,1)
// first.
func backtrack(dp [][]float64) ([]Coord, error) {
	n, m := len(dp), len(dp[0])
	i, j := n-1, m-1

	path := make([]Coord, 0, n+m)
	path = append(path, Coord{I: i + 1, J: j + 1})

	for i > 0 || j > 0 {
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			up := dp[i-1][j]
			left := dp[i][j-1]
			diag := dp[i-1][j-1]

			switch {
			case up <= left && up <= diag:
				i--
			case left <= diag:
				j--
			default:
				i, j = i-1, j-1
			}
		}
		path = append(path, Coord{I: i + 1, J: j + 1})
	}

	if path[len(path)-1].I != 1 || path[len(path)-1].J != 1 {
		return nil, ErrIncompletePath
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path, nil
}

// minOf3 returns the minimum of three float64 values.
func minOf3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}
