package dataset

// PixelRect is a rectangle in device pixels.
type PixelRect struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// DevicePixels converts a CSS-pixel rectangle recorded by the collector
// into device pixels at the given device pixel ratio. Values round half
// up. A non-positive dpr is treated as 1.0.
//
// This is the only DPR-aware conversion in the module; the engine itself
// consumes already-resolved pixel sizes and never re-derives DPR.
func DevicePixels(b SourceBBox, dpr float64) PixelRect {
	if dpr <= 0 {
		dpr = 1.0
	}
	return PixelRect{
		X:      int(b.X*dpr + 0.5),
		Y:      int(b.Y*dpr + 0.5),
		Width:  int(b.Width*dpr + 0.5),
		Height: int(b.Height*dpr + 0.5),
	}
}
