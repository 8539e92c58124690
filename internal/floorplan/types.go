package floorplan

// Descriptor holds the floorplan metadata the presentation layer needs to
// render device coordinates atop the floorplan image.
type Descriptor struct {
	// OriginX, OriginY are the metre offsets of the image reference point.
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`

	// ScalePixelsPerMeter converts metres to image pixels.
	ScalePixelsPerMeter float64 `json:"scale_pixels_per_m"`

	// ImageBytes is the raw content of the referenced floorplan image.
	ImageBytes []byte `json:"image_bytes"`

	// ImageExt is the lowercase file extension of the image (without the
	// dot); it tells the presentation layer how to decode ImageBytes.
	ImageExt string `json:"image_ext"`
}
