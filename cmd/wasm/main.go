//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"image"
	"syscall/js"

	"github.com/disintegration/imaging"

	"frst/pkg/frst"
)

var (
	lastGray    *image.Gray
	lastMarkers []frst.Marker
	lastScore   *frst.ScoreMap
	lastRadius  int
)

func main() {
	js.Global().Set("locateMarkers", js.FuncOf(locateMarkers))
	js.Global().Set("renderOverlay", js.FuncOf(renderOverlay))
	js.Global().Set("renderHeatmap", js.FuncOf(renderHeatmap))
	select {} // block forever
}

func locateMarkers(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: locateMarkers(fileBytes, options)")
	}

	jsBytes := args[0]
	length := jsBytes.Get("length").Int()
	fileBytes := make([]byte, length)
	js.CopyBytesToGo(fileBytes, jsBytes)

	lp := frst.NewLocateParams()
	if len(args) >= 2 && args[1].Type() == js.TypeObject {
		if err := applyOptions(lp, args[1]); err != nil {
			return errorResult(err.Error())
		}
	}

	gray, err := decodeGray(fileBytes)
	if err != nil {
		return errorResult("decode error: " + err.Error())
	}

	result, err := frst.Locate(context.Background(), gray, lp)
	if err != nil {
		return errorResult("locate error: " + err.Error())
	}
	lastGray = gray
	lastMarkers = result.Markers
	lastScore = result.Score
	lastRadius = lp.Transform.Radius

	b := gray.Bounds()
	jsMarkers := make([]interface{}, len(result.Markers))
	for i, m := range result.Markers {
		jsMarkers[i] = map[string]interface{}{
			"x":    m.Center.X,
			"y":    m.Center.Y,
			"area": m.Area,
			"peak": m.Peak,
		}
	}
	return js.ValueOf(map[string]interface{}{
		"width":     b.Dx(),
		"height":    b.Dy(),
		"threshold": result.Threshold,
		"blobs":     result.Metrics.Blobs,
		"markers":   jsMarkers,
	})
}

func applyOptions(lp *frst.LocateParams, opts js.Value) error {
	if v := opts.Get("radius"); v.Type() == js.TypeNumber {
		lp.Transform.Radius = v.Int()
	}
	if v := opts.Get("alpha"); v.Type() == js.TypeNumber {
		lp.Transform.Alpha = v.Float()
	}
	if v := opts.Get("stdFactor"); v.Type() == js.TypeNumber {
		lp.Transform.StdFactor = v.Float()
	}
	if v := opts.Get("mode"); v.Type() == js.TypeString {
		mode, err := frst.ParseMode(v.String())
		if err != nil {
			return err
		}
		lp.Transform.Mode = mode
	}
	if v := opts.Get("minArea"); v.Type() == js.TypeNumber {
		lp.MinArea = v.Float()
	}
	return nil
}

func decodeGray(data []byte) (*image.Gray, error) {
	if frst.IsFITS(data) {
		fitsData, err := frst.ReadFITSFromBytes(data)
		if err != nil {
			return nil, err
		}
		return fitsData.Gray(true), nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return frst.GrayFromImage(img), nil
}

func renderOverlay(this js.Value, args []js.Value) interface{} {
	if lastGray == nil {
		return js.Null()
	}
	opts := frst.DefaultOverlayOptions()
	opts.Labels = true
	opts.ColorByPeak = true
	opts.RingRadius = lastRadius
	return pngResult(frst.RenderMarkers(lastGray, lastMarkers, opts))
}

func renderHeatmap(this js.Value, args []js.Value) interface{} {
	if lastScore == nil {
		return js.Null()
	}
	return pngResult(frst.RenderHeatmap(lastScore))
}

func pngResult(img image.Image) interface{} {
	pngBytes, err := frst.EncodePNGBytes(img)
	if err != nil {
		return js.Null()
	}
	uint8Array := js.Global().Get("Uint8Array").New(len(pngBytes))
	js.CopyBytesToJS(uint8Array, pngBytes)
	return uint8Array
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
