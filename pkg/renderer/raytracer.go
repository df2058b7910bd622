package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/toytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() core.Logger {
	return nopLogger{}
}

// Resolver picks the color seen along an eye ray. It is defined here to avoid
// importing the scene package.
type Resolver interface {
	Resolve(dir core.Vec3) (core.Vec3, bool)
}

// RenderConfig contains rasterization settings
type RenderConfig struct {
	Width      int     // Image width (rows of the pixel buffer)
	Height     int     // Image height (columns of the pixel buffer)
	Mapping    Mapping // Normalized device coordinate range
	Background Pixel   // Color written where nothing is hit
}

// DefaultRenderConfig returns the settings of the original two-wall render
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      1200,
		Height:     1200,
		Mapping:    MappingSigned,
		Background: DefaultBackground,
	}
}

// Validate checks that the raster has a usable size
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.Mapping != MappingUnit && c.Mapping != MappingSigned {
		return fmt.Errorf("invalid mapping %v", c.Mapping)
	}
	return nil
}

// Rasterizer casts one eye ray per pixel and fills a PixelBuffer
type Rasterizer struct {
	config RenderConfig
	plane  *ImagePlane
	logger core.Logger
}

// NewRasterizer creates a rasterizer. A nil logger discards output.
func NewRasterizer(config RenderConfig, logger core.Logger) (*Rasterizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Rasterizer{
		config: config,
		plane:  NewImagePlane(config.Width, config.Height, config.Mapping),
		logger: logger,
	}, nil
}

// Config returns the rasterizer's settings
func (r *Rasterizer) Config() RenderConfig {
	return r.config
}

// Render traces every pixel in raster order. The context is checked once per row.
func (r *Rasterizer) Render(ctx context.Context, scene Resolver) (*PixelBuffer, RenderStats, error) {
	buf := NewPixelBuffer(r.config.Width, r.config.Height)
	stats := RenderStats{TotalPixels: r.config.Width * r.config.Height}
	start := time.Now()

	r.logger.Printf("Rendering %dx%d image (%s mapping)\n", r.config.Width, r.config.Height, r.config.Mapping)

	for row := 0; row < r.config.Width; row++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		for col := 0; col < r.config.Height; col++ {
			c, hit := scene.Resolve(r.plane.Direction(row, col))
			if !hit {
				buf.Set(row, col, r.config.Background)
				continue
			}
			buf.Set(row, col, PixelFromColor(c))
			stats.HitPixels++
		}
	}

	stats.Duration = time.Since(start)
	r.logger.Printf("Render completed in %v: %d of %d pixels hit (%.1f%%)\n",
		stats.Duration, stats.HitPixels, stats.TotalPixels, 100*stats.Coverage())

	return buf, stats, nil
}

// Render rasterizes scene with the signed mapping and the default background
func Render(scene Resolver, width, height int) (*PixelBuffer, error) {
	config := DefaultRenderConfig()
	config.Width = width
	config.Height = height

	r, err := NewRasterizer(config, nil)
	if err != nil {
		return nil, err
	}
	buf, _, err := r.Render(context.Background(), scene)
	return buf, err
}
