package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"math"
)

var (
	ErrInvalidSize = errors.New("invalid target size")
	ErrEmptyImage  = errors.New("source image has zero size")
)

// CenterSquare crops the largest centered square out of src.
func CenterSquare(src image.Image) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	dst := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Pt(x0, y0), draw.Src)
	return dst
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Resize scales src to dstW x dstH with bilinear sampling. Sources already
// at the target size are only normalized to NRGBA.
func Resize(src image.Image, dstW, dstH int) (*image.NRGBA, error) {
	if dstW <= 0 || dstH <= 0 {
		return nil, ErrInvalidSize
	}
	s := toNRGBA(src)
	srcW, srcH := s.Bounds().Dx(), s.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return nil, ErrEmptyImage
	}
	if srcW == dstW && srcH == dstH {
		return s, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	sx := float64(srcW) / float64(dstW)
	sy := float64(srcH) / float64(dstH)

	for j := 0; j < dstH; j++ {
		fy := (float64(j)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		ya, yb := clampInt(y0, 0, srcH-1), clampInt(y0+1, 0, srcH-1)
		for i := 0; i < dstW; i++ {
			fx := (float64(i)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			xa, xb := clampInt(x0, 0, srcW-1), clampInt(x0+1, 0, srcW-1)

			p00 := s.PixOffset(xa, ya)
			p10 := s.PixOffset(xb, ya)
			p01 := s.PixOffset(xa, yb)
			p11 := s.PixOffset(xb, yb)
			out := dst.PixOffset(i, j)
			for ch := 0; ch < 4; ch++ {
				v := (1-wx)*(1-wy)*float64(s.Pix[p00+ch]) +
					wx*(1-wy)*float64(s.Pix[p10+ch]) +
					(1-wx)*wy*float64(s.Pix[p01+ch]) +
					wx*wy*float64(s.Pix[p11+ch])
				dst.Pix[out+ch] = uint8(math.Round(clamp(v, 0, 255)))
			}
		}
	}
	return dst, nil
}

// NormalizeCardArt decodes PNG or JPEG bytes, crops them to a centered
// square and re-encodes a size x size PNG.
func NormalizeCardArt(raw []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode card art: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	out, err := Resize(CenterSquare(img), size, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
