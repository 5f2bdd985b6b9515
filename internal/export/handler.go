// Package export serves the persistence boundary: rasterized PNG previews
// and plain-data stitch list import/export.
package export

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strings"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/render"
	"github.com/closset/closset/engine-go/internal/stitch"
	"github.com/closset/closset/engine-go/internal/typeid"
)

const maxUploadSize = 16 << 20

type Handler struct {
	renderer *render.Renderer
}

func NewHandler(renderer *render.Renderer) *Handler {
	return &Handler{renderer: renderer}
}

type pngRequest struct {
	Name   string         `json:"name"`
	Design *design.Design `json:"design"`
	Params *stitch.Params `json:"params,omitempty"`
}

// ExportPNG rasterizes a posted design document and streams it back as a
// PNG attachment.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req pngRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Design == nil {
		http.Error(w, "design is required", http.StatusBadRequest)
		return
	}

	params := stitch.DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}

	exportID := typeid.NewExportID()
	name := sanitizeName(req.Name)
	img := h.renderer.RenderDesign(req.Design, params)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, name))
	w.Header().Set("X-Export-Id", exportID)
	if err := png.Encode(w, img); err != nil {
		slog.Error("encode png", "error", err, "export", exportID)
		return
	}

	slog.Info("png exported", "export", exportID, "name", name, "stitches", len(req.Design.Stitches))
}

type stitchListRequest struct {
	Design *design.Design `json:"design"`
}

// ExportStitches flattens a design document into the plain stitch record
// list external exporters consume.
func (h *Handler) ExportStitches(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req stitchListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Design == nil {
		http.Error(w, "design is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"stitches": req.Design.Stitches,
	})
}

type importRequest struct {
	Stitches []design.Stitch `json:"stitches"`
}

// ImportStitches reconstitutes a design document from a plain stitch record
// list. Missing ids are assigned; unknown stitch types pass through and
// render via the polyline fallback.
func (h *Handler) ImportStitches(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	d := design.New(typeid.NewLayerID())
	d.Stitches = make([]design.Stitch, len(req.Stitches))
	for i, st := range req.Stitches {
		d.Stitches[i] = st.Clone()
		if d.Stitches[i].ID == "" {
			d.Stitches[i].ID = typeid.NewStitchID()
		}
		d.Stitches[i].Layer = 0
	}

	slog.Info("stitches imported", "count", len(d.Stitches))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

func sanitizeName(name string) string {
	if name == "" {
		return "design"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
