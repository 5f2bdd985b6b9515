package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/render"
)

func newTestHandler() *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(render.New(log, 64, 64, nil))
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestExportPNG(t *testing.T) {
	h := newTestHandler()

	d := design.New("layer_base")
	d.Stitches = append(d.Stitches, design.Stitch{
		ID:        "st_a",
		Type:      design.StitchCross,
		Points:    []geom.Point{geom.Pt(0.2, 0.2), geom.Pt(0.8, 0.8)},
		Color:     "#c0392b",
		Thickness: 0.01,
		Opacity:   1,
	})

	rec := postJSON(t, h.ExportPNG, pngRequest{Name: "my design!", Design: d})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="my-design-.png"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Export-Id"), "exp_"), "export id identifies the render in logs")

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestExportPNG_MissingDesign(t *testing.T) {
	h := newTestHandler()
	rec := postJSON(t, h.ExportPNG, pngRequest{Name: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportStitches_AssignsIDs(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h.ImportStitches, importRequest{
		Stitches: []design.Stitch{
			{Type: design.StitchChain, Points: []geom.Point{geom.Pt(0.1, 0.1), geom.Pt(0.2, 0.2)}, Color: "#000000", Thickness: 0.003, Opacity: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var d design.Design
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.Len(t, d.Stitches, 1)
	assert.NotEmpty(t, d.Stitches[0].ID)
	assert.Equal(t, 0, d.Stitches[0].Layer)
	require.Len(t, d.Layers, 1)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "design", sanitizeName(""))
	assert.Equal(t, "spring_flowers-2", sanitizeName("spring_flowers-2"))
	assert.Equal(t, "a-b-c", sanitizeName("a/b c"))
}
