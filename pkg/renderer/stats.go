package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Total number of pixels rendered
	HitPixels   int           // Pixels colored by a primitive
	Duration    time.Duration // Wall time spent in the pixel loop
}

// BackgroundPixels returns the number of pixels that fell back to the background
func (s RenderStats) BackgroundPixels() int {
	return s.TotalPixels - s.HitPixels
}

// Coverage returns the fraction of pixels that hit a primitive
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}
