package pipeline

import "errors"

// Sentinel errors returned by Detect.
var (
	// ErrInputNotFound indicates the NDVI or coal raster path does not exist.
	ErrInputNotFound = errors.New("pipeline: input raster not found")

	// ErrInvalidRaster indicates a raster failed to open or had an
	// unusable shape (zero bands).
	ErrInvalidRaster = errors.New("pipeline: invalid input raster")

	// ErrInsufficientData indicates the percentile estimator found
	// fewer than 200 valid NDVI samples across the whole stack.
	ErrInsufficientData = errors.New("pipeline: insufficient valid NDVI samples")

	// ErrComputeError wraps an unexpected failure during per-pixel
	// computation that isn't attributable to cancellation.
	ErrComputeError = errors.New("pipeline: compute error")

	// ErrCancelled indicates the run was cancelled via context.
	ErrCancelled = errors.New("pipeline: cancelled")
)
