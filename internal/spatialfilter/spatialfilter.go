// Package spatialfilter turns a raw per-pixel classification raster
// into mining disturbance polygons: morphological opening, 8-connected
// component labelling, and coal-overlap area gating. All rasters are
// flat row-major []int/[]float64 slices of length width*height.
package spatialfilter

// diskOffsets are the (dx,dy) offsets of a Euclidean disk of radius 2
// (x²+y² ≤ 4) over a 5x5 neighbourhood, used as the structuring
// element for morphological opening.
var diskOffsets = buildDiskOffsets(2)

func buildDiskOffsets(radius int) [][2]int {
	offsets := make([][2]int, 0, 13)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				offsets = append(offsets, [2]int{dx, dy})
			}
		}
	}

	return offsets
}

// conn8Offsets are the eight neighbour offsets used for connected
// component labelling.
var conn8Offsets = [][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

func index(width, x, y int) int { return y*width + x }

func inBounds(width, height, x, y int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

// isFlatOrMissing reports whether label is 0 (missing) or one of the
// "flat" labels 37,38,39,40 (constant, no disturbance/recovery signal),
// for mask purposes.
func isFlatOrMissing(label int) bool {
	return label == 0 || (label >= 37 && label <= 40)
}

// Mask builds the binary disturbance mask: 1 where label is a genuine
// disturbance/recovery template (not 0, not 37-40, not a NaN
// sentinel), else 0. NaN pixels are expected to already be encoded as
// label 0 upstream, so they fall out of isFlatOrMissing's label==0 case.
func Mask(labels []int) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		if !isFlatOrMissing(l) {
			out[i] = 1
		}
	}

	return out
}

// erode shrinks the mask: a pixel stays 1 only if every structuring
// element offset, shifted to that pixel, also lies in-bounds and is 1.
func erode(mask []int, width, height int) []int {
	out := make([]int, len(mask))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[index(width, x, y)] == 0 {
				continue
			}
			keep := true
			for _, d := range diskOffsets {
				nx, ny := x+d[0], y+d[1]
				if !inBounds(width, height, nx, ny) || mask[index(width, nx, ny)] == 0 {
					keep = false

					break
				}
			}
			if keep {
				out[index(width, x, y)] = 1
			}
		}
	}

	return out
}

// dilate grows the mask: a pixel becomes 1 if any structuring element
// offset, shifted to that pixel, lies in-bounds and is 1.
func dilate(mask []int, width, height int) []int {
	out := make([]int, len(mask))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			found := false
			for _, d := range diskOffsets {
				nx, ny := x+d[0], y+d[1]
				if inBounds(width, height, nx, ny) && mask[index(width, nx, ny)] != 0 {
					found = true

					break
				}
			}
			if found {
				out[index(width, x, y)] = 1
			}
		}
	}

	return out
}

// Open applies morphological opening (erosion followed by dilation)
// with the radius-2 disk structuring element.
func Open(mask []int, width, height int) []int {
	return dilate(erode(mask, width, height), width, height)
}

// Label8 labels 8-connected components of 1-valued cells in mask,
// returning a same-shaped raster of component labels (1..n, 0 for
// background) and the number of components found.
func Label8(mask []int, width, height int) ([]int, int) {
	labels := make([]int, len(mask))
	visited := make([]bool, len(mask))
	next := 0

	queue := make([]int, 0, len(mask))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			start := index(width, x, y)
			if mask[start] == 0 || visited[start] {
				continue
			}

			next++
			visited[start] = true
			queue = queue[:0]
			queue = append(queue, start)

			for qi := 0; qi < len(queue); qi++ {
				idx := queue[qi]
				labels[idx] = next
				cx, cy := idx%width, idx/width

				for _, d := range conn8Offsets {
					nx, ny := cx+d[0], cy+d[1]
					if !inBounds(width, height, nx, ny) {
						continue
					}
					nIdx := index(width, nx, ny)
					if mask[nIdx] == 0 || visited[nIdx] {
						continue
					}
					visited[nIdx] = true
					queue = append(queue, nIdx)
				}
			}
		}
	}

	return labels, next
}

// BinarizeCoalBands sums, across bands, the per-band binarization
// coal>0.5 -> 1 (NaN or <=0.5 -> 0), then clamps the sum to {0,1}.
func BinarizeCoalBands(bands [][]float64) []int {
	if len(bands) == 0 {
		return nil
	}
	out := make([]int, len(bands[0]))
	for _, band := range bands {
		for i, v := range band {
			if v > 0.5 {
				out[i]++
			}
		}
	}
	for i, v := range out {
		if v > 1 {
			out[i] = 1
		}
	}

	return out
}

// MedianFilter5x5 applies a 5x5 median filter to an integer raster,
// clamping the window to the raster bounds at edges.
func MedianFilter5x5(mask []int, width, height int) []int {
	out := make([]int, len(mask))
	window := make([]int, 0, 25)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			window = window[:0]
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					nx, ny := x+dx, y+dy
					if inBounds(width, height, nx, ny) {
						window = append(window, mask[index(width, nx, ny)])
					}
				}
			}
			out[index(width, x, y)] = medianInt(window)
		}
	}

	return out
}

func medianInt(xs []int) int {
	sorted := make([]int, len(xs))
	copy(sorted, xs)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	return sorted[len(sorted)/2]
}

// gateThresholds are the region-area and coal-overlap thresholds a
// connected component must clear to be kept as a mining disturbance
// polygon.
const (
	minTotalArea      = 1111
	minOverlapArea    = 222
	minOverlapFraction = 0.02
)

// GateRegions keeps only components whose total area and coal-mask
// overlap both clear the fixed thresholds, returning a binary mask
// (1 = kept) the same shape as componentLabels.
func GateRegions(componentLabels []int, numComponents int, coalMask []int) []int {
	totals := make([]int, numComponents+1)
	overlaps := make([]int, numComponents+1)

	for i, l := range componentLabels {
		if l == 0 {
			continue
		}
		totals[l]++
		if coalMask[i] != 0 {
			overlaps[l]++
		}
	}

	keep := make([]bool, numComponents+1)
	for l := 1; l <= numComponents; l++ {
		if overlaps[l] == 0 {
			continue
		}
		total := totals[l]
		overlap := overlaps[l]
		if total >= minTotalArea && overlap >= minOverlapArea && float64(overlap)/float64(total) >= minOverlapFraction {
			keep[l] = true
		}
	}

	out := make([]int, len(componentLabels))
	for i, l := range componentLabels {
		if l != 0 && keep[l] {
			out[i] = 1
		}
	}

	return out
}

// ApplyYearMask converts raw 1-based band-index year values into
// absolute calendar years under the kept-region mask: years outside
// the kept mask collapse to startYear-1, then the whole raster is
// shifted so that sentinel reads as 0.
func ApplyYearMask(yearRaw []int, keepMask []int, startYear int) []int {
	out := make([]int, len(yearRaw))
	baseline := startYear - 1

	for i, y := range yearRaw {
		v := y
		if keepMask[i] == 0 {
			v = 0
		}
		abs := v + baseline
		if abs == baseline {
			abs = 0
		}
		out[i] = abs
	}

	return out
}
