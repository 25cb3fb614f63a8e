package layout

import "math"

// Fallback frame dimensions used when a caller passes an unusable width
// or height. Matches the pipeline defaults so direct engine calls and
// pipeline calls degrade to the same frame.
const (
	fallbackFrameWidth  = 800.0
	fallbackFrameHeight = 600.0
)

// SanitizeFrame replaces non-finite or non-positive frame dimensions
// with the fallback frame. Every engine runs its input through this, so
// the finite-output guarantee holds even for library callers that skip
// option validation.
func SanitizeFrame(width, height float64) (float64, float64) {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		width = fallbackFrameWidth
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
		height = fallbackFrameHeight
	}
	return width, height
}
