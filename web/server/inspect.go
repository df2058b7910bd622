package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/toytracer/pkg/core"
	"github.com/df07/toytracer/pkg/geometry"
	"github.com/df07/toytracer/pkg/renderer"
	"github.com/df07/toytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Index        int                    `json:"index"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Direction    [3]float64             `json:"direction"`
	Point        [3]float64             `json:"point"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts the eye ray through (row, col) and reports the winning primitive
func inspectPixel(sceneObj *scene.Scene, config renderer.RenderConfig, row, col int) (InspectResponse, scene.Hit, bool) {
	plane := renderer.NewImagePlane(config.Width, config.Height, config.Mapping)
	ray := plane.GetRay(row, col)
	dir := ray.Direction

	response := InspectResponse{
		Index:     -1,
		Direction: toArray(dir),
		Color:     hexColor(config.Background),
	}
	hit, ok := sceneObj.ResolveHit(dir)
	if !ok {
		return response, hit, false
	}

	response.Hit = true
	response.Index = hit.Index
	response.Point = toArray(ray.At(hit.T))
	response.Distance = hit.T
	response.Color = hexColor(renderer.PixelFromColor(hit.Color))
	return response, hit, true
}

// extractGeometryInfo describes a primitive for the inspector
func extractGeometryInfo(p geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	c := p.Color()
	properties["albedo"] = toArray(c)

	switch geom := p.(type) {
	case *geometry.Triangle:
		a, b, cc := geom.Vertices()
		properties["vertices"] = [3][3]float64{toArray(a), toArray(b), toArray(cc)}
		properties["near"] = geom.Clip().Near
		properties["far"] = geom.Clip().Far
		return "triangle", properties

	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center())
		properties["radius"] = geom.Radius()
		properties["near"] = geom.Clip().Near
		properties["far"] = geom.Clip().Far
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports which primitive colors a pixel of a built-in scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}
	cfg, err := s.createConfig(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Parse pixel coordinates
	row, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	col, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if row < 0 || row >= cfg.Width || col < 0 || col >= cfg.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := cfg.Build()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	renderConfig, err := cfg.RenderConfig()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	response, hit, ok := inspectPixel(sceneObj, renderConfig, row, col)
	if ok {
		response.GeometryType, response.Properties = extractGeometryInfo(sceneObj.Primitives[hit.Index])
	}
	writeJSON(w, http.StatusOK, response)
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(p renderer.Pixel) string {
	c := p.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
