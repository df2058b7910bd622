package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/toytracer/pkg/core"
	"github.com/df07/toytracer/pkg/geometry"
	"github.com/df07/toytracer/pkg/loaders"
	"github.com/df07/toytracer/pkg/renderer"
)

// Vec is a JSON-friendly 3-component vector: [x, y, z]
type Vec [3]float64

// Vec3 converts to core.Vec3
func (v Vec) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// PrimitiveCfg describes one primitive. Type is "triangle" (A, B, C), "sphere"
// (Center, Radius) or "mesh" (Path to a PLY file, expanded into triangles).
type PrimitiveCfg struct {
	Type   string  `json:"type"`
	A      Vec     `json:"a,omitempty"`
	B      Vec     `json:"b,omitempty"`
	C      Vec     `json:"c,omitempty"`
	Center Vec     `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Path   string  `json:"path,omitempty"`
	Color  Vec     `json:"color"` // RGB, each component in [0,1]
}

// Config is a complete render description: raster, camera mapping, scene and outputs
type Config struct {
	Name       string         `json:"name,omitempty"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Mapping    string         `json:"mapping,omitempty"`    // "unit" or "signed" (default)
	HitPolicy  string         `json:"hitPolicy,omitempty"`  // "last" (default) or "nearest"
	Background *[3]int        `json:"background,omitempty"` // 0-255 per channel; default 120 gray
	Near       *float64       `json:"near,omitempty"`       // default 1; 0 is allowed
	Far        *float64       `json:"far,omitempty"`        // default 30
	Primitives []PrimitiveCfg `json:"primitives"`

	Output    string `json:"output,omitempty"`    // Output image path (.jpg, .png, .ppm)
	Reference string `json:"reference,omitempty"` // Reference asset used as a size/type template
	Caption   string `json:"caption,omitempty"`   // Optional text stamped on the output

	dir    string                      // Directory that relative mesh paths resolve against
	meshes map[string]*loaders.PLYData // Parsed meshes by resolved path, shared by Validate and Build
}

// LoadConfig reads a JSON scene configuration from disk and validates it. Relative
// mesh paths resolve against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}
	return parseConfig(data, filepath.Dir(path))
}

// ParseConfig decodes and validates a JSON scene configuration
func ParseConfig(data []byte) (*Config, error) {
	return parseConfig(data, "")
}

func parseConfig(data []byte, dir string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}
	cfg.dir = dir
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Clip returns the near/far range, applying defaults for omitted values
func (c *Config) Clip() geometry.Clip {
	clip := geometry.DefaultClip()
	if c.Near != nil {
		clip.Near = *c.Near
	}
	if c.Far != nil {
		clip.Far = *c.Far
	}
	return clip
}

// RenderConfig converts the raster settings for the rasterizer
func (c *Config) RenderConfig() (renderer.RenderConfig, error) {
	mapping := renderer.MappingSigned
	if c.Mapping != "" {
		m, err := renderer.ParseMapping(c.Mapping)
		if err != nil {
			return renderer.RenderConfig{}, err
		}
		mapping = m
	}

	background := renderer.DefaultBackground
	if c.Background != nil {
		background = renderer.Pixel{R: c.Background[0], G: c.Background[1], B: c.Background[2]}
	}

	return renderer.RenderConfig{
		Width:      c.Width,
		Height:     c.Height,
		Mapping:    mapping,
		Background: background,
	}, nil
}

// Validate checks the whole configuration and reports every problem it finds
func (c *Config) Validate() error {
	var errs []error

	rc, err := c.RenderConfig()
	if err != nil {
		errs = append(errs, err)
	} else if err := rc.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseHitPolicy(c.HitPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.Background != nil {
		for i, v := range c.Background {
			if v < 0 || v > 255 {
				errs = append(errs, fmt.Errorf("background channel %d out of range: %d", i, v))
			}
		}
	}
	if err := c.Clip().Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, p := range c.Primitives {
		if _, err := p.build(c.Clip(), c.loadMesh); err != nil {
			errs = append(errs, fmt.Errorf("primitive %d: %w", i, err))
		}
		if !p.Color.Vec3().InUnitRange() {
			errs = append(errs, fmt.Errorf("primitive %d: color %v outside [0,1]", i, p.Color))
		}
	}

	return errors.Join(errs...)
}

// Build constructs the scene, preserving primitive order
func (c *Config) Build() (*Scene, error) {
	policy, err := ParseHitPolicy(c.HitPolicy)
	if err != nil {
		return nil, err
	}

	s := NewScene(policy)
	for i, p := range c.Primitives {
		prims, err := p.build(c.Clip(), c.loadMesh)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		for _, prim := range prims {
			s.Add(prim)
		}
	}
	return s, nil
}

// loadMesh reads a PLY file once per config; later calls reuse the parsed mesh
func (c *Config) loadMesh(path string) (*loaders.PLYData, error) {
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	if mesh, ok := c.meshes[path]; ok {
		return mesh, nil
	}
	mesh, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, err
	}
	if c.meshes == nil {
		c.meshes = make(map[string]*loaders.PLYData)
	}
	c.meshes[path] = mesh
	return mesh, nil
}

func (p PrimitiveCfg) build(clip geometry.Clip, loadMesh func(string) (*loaders.PLYData, error)) ([]geometry.Primitive, error) {
	switch strings.ToLower(p.Type) {
	case "triangle":
		tri, err := geometry.NewTriangleWithClip(p.A.Vec3(), p.B.Vec3(), p.C.Vec3(), p.Color.Vec3(), clip)
		if err != nil {
			return nil, err
		}
		return []geometry.Primitive{tri}, nil
	case "sphere":
		sphere, err := geometry.NewSphereWithClip(p.Center.Vec3(), p.Radius, p.Color.Vec3(), clip)
		if err != nil {
			return nil, err
		}
		return []geometry.Primitive{sphere}, nil
	case "mesh":
		return p.buildMesh(clip, loadMesh)
	default:
		return nil, fmt.Errorf("unknown primitive type %q", p.Type)
	}
}

// buildMesh loads a PLY mesh and emits one triangle per face, all sharing the mesh color
func (p PrimitiveCfg) buildMesh(clip geometry.Clip, loadMesh func(string) (*loaders.PLYData, error)) ([]geometry.Primitive, error) {
	if p.Path == "" {
		return nil, errors.New("mesh primitive needs a path")
	}

	mesh, err := loadMesh(p.Path)
	if err != nil {
		return nil, err
	}

	prims := make([]geometry.Primitive, 0, mesh.TriangleCount())
	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		tri, err := geometry.NewTriangleWithClip(a, b, c, p.Color.Vec3(), clip)
		if err != nil {
			return nil, fmt.Errorf("mesh triangle %d: %w", i, err)
		}
		prims = append(prims, tri)
	}
	return prims, nil
}
