package renderer

import (
	"fmt"
	"strings"

	"github.com/df07/toytracer/pkg/core"
)

// Mapping selects the normalized device coordinate range of the image plane
type Mapping int

const (
	// MappingUnit maps pixels onto [0,1]x[0,1]
	MappingUnit Mapping = iota
	// MappingSigned maps pixels onto [-1,1]x[-1,1]
	MappingSigned
)

func (m Mapping) String() string {
	switch m {
	case MappingUnit:
		return "unit"
	case MappingSigned:
		return "signed"
	default:
		return fmt.Sprintf("Mapping(%d)", int(m))
	}
}

// ParseMapping converts "unit" or "signed" to a Mapping
func ParseMapping(s string) (Mapping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unit":
		return MappingUnit, nil
	case "signed":
		return MappingSigned, nil
	default:
		return MappingUnit, fmt.Errorf("unknown mapping %q (want unit or signed)", s)
	}
}

// ImagePlane maps pixel coordinates to eye rays. The eye sits at the origin looking
// down -Z with focal length 1.
type ImagePlane struct {
	width   int
	height  int
	mapping Mapping
}

// NewImagePlane creates an image plane for a width x height raster
func NewImagePlane(width, height int, mapping Mapping) *ImagePlane {
	return &ImagePlane{
		width:   width,
		height:  height,
		mapping: mapping,
	}
}

// NDC returns the normalized device coordinates of pixel (row, col), where row runs
// along the width and col along the height. Column 0 is the top of the image.
func (p *ImagePlane) NDC(row, col int) (x, y float64) {
	x = float64(row) / float64(p.width)
	y = float64(p.height-col) / float64(p.height)

	if p.mapping == MappingSigned {
		// transform from [0,1]x[0,1] to [-1,1]x[-1,1]
		x = 2*x - 1
		y = 2*y - 1
	}
	return x, y
}

// Direction returns the eye ray direction (x, y, -1) for pixel (row, col)
func (p *ImagePlane) Direction(row, col int) core.Vec3 {
	x, y := p.NDC(row, col)
	return core.NewVec3(x, y, -1)
}

// GetRay returns the full eye ray for pixel (row, col)
func (p *ImagePlane) GetRay(row, col int) core.Ray {
	return core.NewRay(core.Vec3{}, p.Direction(row, col))
}
