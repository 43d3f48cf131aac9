package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/material"
	"github.com/df07/go-raydiance/pkg/renderer"
	"github.com/df07/go-raydiance/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialName string                 `json:"materialName,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	TexCoord     [2]float64             `json:"texCoord"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Triangle     int                    `json:"triangle"`
	Instance     int                    `json:"instance"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectRequest picks the pixel to trace through
type InspectRequest struct {
	SceneRequest
	X, Y int
}

// extractMaterialInfo reports the material parameters resolved at uv
func extractMaterialInfo(mat material.Material, uv core.Vec2, textures []*material.Texture) map[string]interface{} {
	p := material.Resolve(mat, uv, textures)
	properties := map[string]interface{}{
		"baseColor": [3]float64{p.BaseColor.X, p.BaseColor.Y, p.BaseColor.Z},
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(p.BaseColor.X*255), int(p.BaseColor.Y*255), int(p.BaseColor.Z*255)),
		"textured": mat.BaseColorTexture != material.NoTexture || mat.MetallicRoughnessTexture != material.NoTexture,
	}
	if p.Model == material.Disney {
		properties["metallic"] = p.Metallic
		properties["roughness"] = p.Roughness
		properties["specular"] = p.Specular
		properties["specularTint"] = p.SpecularTint
		properties["sheen"] = p.Sheen
		properties["sheenTint"] = p.SheenTint
	}
	return properties
}

func parseInspectRequest(values url.Values) (*InspectRequest, error) {
	common, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}
	req := &InspectRequest{SceneRequest: common}
	if req.X, err = parseIntParam(values, "x", 0, 0, req.Width-1); err != nil {
		return nil, err
	}
	if req.Y, err = parseIntParam(values, "y", 0, 0, req.Height-1); err != nil {
		return nil, err
	}
	return req, nil
}

// inspect traces the ray through the center of the requested pixel
func inspect(s *scene.Scene, world *geometry.World, req *InspectRequest) InspectResponse {
	camera := renderer.NewCamera(s.Camera, req.Width, req.Height)
	ray := camera.GetRay(req.X, req.Y, core.NewVec2(0.5, 0.5))

	hit, ok := world.Intersect(ray, nil)
	if !ok {
		return InspectResponse{Hit: false}
	}
	si := world.Surface(ray, hit)
	mat := s.Materials[si.Material]

	return InspectResponse{
		Hit:          true,
		MaterialName: mat.Name,
		MaterialType: mat.Model.String(),
		Point:        [3]float64{si.Point.X, si.Point.Y, si.Point.Z},
		Normal:       [3]float64{si.Normal.X, si.Normal.Y, si.Normal.Z},
		TexCoord:     [2]float64{si.TexCoord.X, si.TexCoord.Y},
		Distance:     hit.T,
		FrontFace:    si.FrontFace,
		Triangle:     hit.Primitive,
		Instance:     hit.Instance,
		Properties:   extractMaterialInfo(mat, si.TexCoord, s.Textures),
	}
}

// handleInspect reports what the camera sees through one pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseInspectRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, world, err := buildScene(req.SceneRequest, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, inspect(sc, world, req))
}
