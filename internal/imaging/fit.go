package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// fit downscales src so that width <= maxW and height <= maxH while
// preserving the aspect ratio. Images that already fit are returned
// unchanged — this is a downscale-only operation, never an enlargement.
//
// The scale factor is the smaller of the two per-axis ratios, so the
// constrained axis lands exactly on its bound and the other stays inside.
// Catmull-Rom is the slowest of x/image's kernels but gives the cleanest
// result for photo content at these sizes.
func fit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	// Rounding down can produce a zero dimension for extreme aspect ratios
	// (e.g. a 1×10000 strip); a 1px floor keeps the image drawable.
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
