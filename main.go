package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/toytracer/pkg/display"
	"github.com/df07/toytracer/pkg/display/preview"
	"github.com/df07/toytracer/pkg/loaders"
	"github.com/df07/toytracer/pkg/renderer"
	"github.com/df07/toytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName  string
	configPath string
	output     string
	reference  string
	width      int
	height     int
	mapping    string
	policy     string
	quality    int
	caption    string
	preview    bool
}

func main() {
	// Parse command line flags
	var opts options
	flag.StringVar(&opts.sceneName, "scene", "walls", "Built-in scene: "+strings.Join(scene.BuiltinNames(), ", "))
	flag.StringVar(&opts.configPath, "config", "", "Path to a JSON scene config (overrides -scene)")
	flag.StringVar(&opts.output, "out", "", "Output image path (.jpg, .png or .ppm)")
	flag.StringVar(&opts.reference, "reference", "", "Reference image whose size the output takes")
	flag.IntVar(&opts.width, "width", 0, "Override image width")
	flag.IntVar(&opts.height, "height", 0, "Override image height")
	flag.StringVar(&opts.mapping, "mapping", "", "Image plane mapping: 'unit' or 'signed'")
	flag.StringVar(&opts.policy, "policy", "", "Hit policy: 'last' or 'nearest'")
	flag.IntVar(&opts.quality, "quality", loaders.DefaultJPEGQuality, "JPEG quality (1-100)")
	flag.StringVar(&opts.caption, "caption", "", "Text stamped along the bottom of the output")
	flag.BoolVar(&opts.preview, "preview", false, "Show the render in a window")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Toy Raytracer")
		fmt.Println("Usage: toytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  walls   - Two triangular walls, red and green, on a gray background")
		fmt.Println("  panel   - One triangle covering the image interior")
		fmt.Println("  spheres - Two overlapping spheres resolved by nearest hit")
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.jpg")
		return
	}

	fmt.Println("Starting Toy Raytracer...")

	if err := run(opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts.sceneName, opts.configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = opts.sceneName
	}
	filename := outputPath(cfg, name, time.Now())

	// Fail before rendering if the output, the reference or the preview is unusable
	if err := loaders.ProbeWritable(filename); err != nil {
		return err
	}
	if opts.preview {
		if err := display.CheckSize(cfg.Width, cfg.Height); err != nil {
			return fmt.Errorf("cannot preview: %w", err)
		}
	}
	writeOpts := loaders.WriteOptions{Quality: opts.quality, Caption: cfg.Caption}
	if cfg.Reference != "" {
		tmpl, err := loaders.ProbeTemplate(cfg.Reference)
		if err != nil {
			return err
		}
		fmt.Printf("Using reference %s (%s, %dx%d)\n", cfg.Reference, tmpl.Format, tmpl.Width, tmpl.Height)
		writeOpts.Template = &tmpl
	}

	sceneObj, err := cfg.Build()
	if err != nil {
		return err
	}
	renderConfig, err := cfg.RenderConfig()
	if err != nil {
		return err
	}
	writeOpts.Background = renderConfig.Background

	raytracer, err := renderer.NewRasterizer(renderConfig, renderer.NewDefaultLogger())
	if err != nil {
		return err
	}

	fmt.Printf("Using %s scene (%d primitives, %s hit policy)...\n", name, sceneObj.GetPrimitiveCount(), sceneObj.Policy)
	buf, _, err := raytracer.Render(context.Background(), sceneObj)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if err := loaders.WriteImage(filename, buf, writeOpts); err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", filename)

	if opts.preview {
		return showPreview(name, buf, cfg.Caption)
	}
	return nil
}

// loadConfig returns the JSON config at configPath when given, else the named built-in
func loadConfig(sceneName, configPath string) (*scene.Config, error) {
	if configPath != "" {
		fmt.Printf("Loading scene config from %s...\n", configPath)
		return scene.LoadConfig(configPath)
	}
	return scene.Builtin(sceneName)
}

// applyOverrides copies non-empty flags onto cfg and revalidates it
func applyOverrides(cfg *scene.Config, opts options) error {
	if opts.width > 0 {
		cfg.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Height = opts.height
	}
	if opts.mapping != "" {
		cfg.Mapping = opts.mapping
	}
	if opts.policy != "" {
		cfg.HitPolicy = opts.policy
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.reference != "" {
		cfg.Reference = opts.reference
	}
	if opts.caption != "" {
		cfg.Caption = opts.caption
	}
	return cfg.Validate()
}

// outputPath returns the configured output, or output/<scene>/render_<timestamp>.jpg
func outputPath(cfg *scene.Config, name string, now time.Time) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.jpg", timestamp))
}

func showPreview(name string, buf *renderer.PixelBuffer, caption string) error {
	fb, err := display.NewFramebuffer(buf.Width, buf.Height)
	if err != nil {
		return fmt.Errorf("cannot preview: %w", err)
	}
	if err := display.Blit(fb, buf); err != nil {
		return err
	}
	if err := display.Caption(fb, caption, color.RGBA{R: 255, G: 255, B: 255, A: 255}); err != nil {
		return err
	}

	scale := 1
	if buf.Width < 400 && buf.Height < 400 {
		scale = 400 / max(buf.Width, buf.Height)
	}
	fmt.Println("Opening preview window (Esc to close)...")
	return preview.RunWindow("Toy Raytracer - "+name, fb, scale)
}
