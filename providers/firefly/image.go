package firefly

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/BaSui01/genbridge/types"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ScaleToFit returns width×height scaled to fit a target×target box,
// preserving aspect ratio.
func ScaleToFit(width, height, target int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	if width >= height {
		return target, max(int(float64(height)*float64(target)/float64(width)), 1)
	}
	return max(int(float64(width)*float64(target)/float64(height)), 1), target
}

// fitImage downsizes img when either side exceeds maxDim. JPEG input stays
// JPEG; everything else is re-encoded as PNG.
func fitImage(img Image, maxDim int) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return img, types.NewError(types.ErrInvalidRequest, "failed to read image dimensions").WithCause(err)
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return img, nil
	}

	src, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return img, types.NewError(types.ErrInvalidRequest, "failed to decode image").WithCause(err)
	}
	w, h := ScaleToFit(cfg.Width, cfg.Height, maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	out := Image{ContentType: "image/png"}
	if format == "jpeg" {
		out.ContentType = "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 92})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return img, types.NewError(types.ErrEncode, "failed to encode scaled image").WithCause(err)
	}
	out.Data = buf.Bytes()
	return out, nil
}
