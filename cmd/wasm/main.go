//go:build js && wasm

package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"syscall/js"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/session"
	"github.com/closset/closset/engine-go/internal/stitch"
	"github.com/closset/closset/engine-go/internal/typeid"
)

var sess *session.Session

func main() {
	sess = session.New(slog.New(slog.NewTextHandler(io.Discard, nil)), session.Options{})

	engine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	engine.Set("pointerStart", js.FuncOf(pointerStart))
	engine.Set("pointerMove", js.FuncOf(pointerMove))
	engine.Set("pointerEnd", js.FuncOf(pointerEnd))
	engine.Set("setStyle", js.FuncOf(setStyle))
	engine.Set("setParams", js.FuncOf(setParams))
	engine.Set("undo", js.FuncOf(undo))
	engine.Set("redo", js.FuncOf(redo))
	engine.Set("clear", js.FuncOf(clear))
	engine.Set("optimize", js.FuncOf(optimize))
	engine.Set("restyle", js.FuncOf(restyle))
	engine.Set("generate", js.FuncOf(generate))
	engine.Set("importStitches", js.FuncOf(importStitches))
	engine.Set("loadSampleDesign", js.FuncOf(loadSampleDesign))
	engine.Set("addLayer", js.FuncOf(addLayer))
	engine.Set("removeLayer", js.FuncOf(removeLayer))
	engine.Set("renameLayer", js.FuncOf(renameLayer))
	engine.Set("toggleLayer", js.FuncOf(toggleLayer))
	engine.Set("selectLayer", js.FuncOf(selectLayer))

	// --- Queries (frontend ← backend) ---
	engine.Set("getDesign", js.FuncOf(getDesign))
	engine.Set("getDraft", js.FuncOf(getDraft))
	engine.Set("canUndo", js.FuncOf(canUndo))
	engine.Set("canRedo", js.FuncOf(canRedo))
	engine.Set("isDrawing", js.FuncOf(isDrawing))
	engine.Set("pollRender", js.FuncOf(pollRender))

	// Register on global scope
	js.Global().Set("clossetEngine", engine)

	// Signal that WASM is ready
	js.Global().Set("clossetWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func pointerStart(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	sess.Start(geom.Pt(args[0].Float(), args[1].Float()))
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	sess.Move(geom.Pt(args[0].Float(), args[1].Float()))
	return nil
}

func pointerEnd(this js.Value, args []js.Value) interface{} {
	sess.End()
	return nil
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing style JSON"})
	}
	var st design.Style
	if err := json.Unmarshal([]byte(args[0].String()), &st); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	sess.SetStyle(st)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setParams(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing params JSON"})
	}
	p := stitch.DefaultParams()
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	sess.SetParams(p)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.Redo())
}

func clear(this js.Value, args []js.Value) interface{} {
	sess.Clear()
	return nil
}

func optimize(this js.Value, args []js.Value) interface{} {
	sess.ApplyOptimize()
	return nil
}

func restyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing style JSON"})
	}
	var req struct {
		Style design.Style `json:"style"`
		IDs   []string     `json:"ids"`
	}
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	sess.ApplyStyle(req.Style, req.IDs...)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func generate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing generate JSON"})
	}
	var req struct {
		Type     design.StitchType      `json:"type"`
		Geometry stitch.Geometry        `json:"geometry"`
		Material stitch.Material        `json:"material"`
		Lighting stitch.Lighting        `json:"lighting"`
		Shape    stitch.ShapeProperties `json:"shape"`
	}
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	n := sess.GenerateRealistic(req.Type, req.Geometry, req.Material, req.Lighting, req.Shape)
	return js.ValueOf(map[string]interface{}{"generated": n})
}

func importStitches(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing stitches JSON"})
	}
	var stitches []design.Stitch
	if err := json.Unmarshal([]byte(args[0].String()), &stitches); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	sess.Import(stitches)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDesign(this js.Value, args []js.Value) interface{} {
	sample := design.NewSample(typeid.NewLayerID(), typeid.NewStitchID)
	sess.Import(sample.Stitches)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func addLayer(this js.Value, args []js.Value) interface{} {
	name := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	return js.ValueOf(sess.AddLayer(name))
}

func removeLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(sess.RemoveLayer(args[0].Int()))
}

func renameLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(sess.RenameLayer(args[0].Int(), args[1].String()))
}

func toggleLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(sess.ToggleLayer(args[0].Int()))
}

func selectLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(sess.SetActiveLayer(args[0].Int()))
}

// --- Query Handlers ---

func getDesign(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(sess.Design())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getDraft(this js.Value, args []js.Value) interface{} {
	draft, ok := sess.Draft()
	if !ok {
		return js.ValueOf("null")
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.CanRedo())
}

func isDrawing(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.State() == session.Drawing)
}

func pollRender(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(sess.PollRender())
}
