// Package imageproc provides the image codec for the app: decoding, watermark compositing and PNG encoding.
package imageproc

import (
	"fmt"
	"image"
	"math"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// lanczos - Lanczos3, в x/image/draw его нет
var lanczos = &xdraw.Kernel{Support: 3, At: func(t float64) float64 {
	if t == 0 {
		return 1
	}
	pt := math.Pi * t
	return 3 * math.Sin(pt) * math.Sin(pt/3) / (pt * pt)
}}

var interpolators = map[model.ResampleFilter]xdraw.Interpolator{
	model.FilterNearest:    xdraw.NearestNeighbor,
	model.FilterLinear:     xdraw.BiLinear,
	model.FilterCatmullRom: xdraw.CatmullRom,
	model.FilterLanczos:    lanczos,
}

// ResampleFilter maps the filter name to the interpolator; empty name means nearest neighbor.
func ResampleFilter(name model.ResampleFilter) (xdraw.Interpolator, error) {
	if name == "" {
		return xdraw.NearestNeighbor, nil
	}

	f, ok := interpolators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrIncorrectFilter, name)
	}
	return f, nil
}

// Composite масштабирует ватермарк до размеров из p и копирует его в основу по смещению (p.X, p.Y).
// Исходная основа не меняется - результат всегда новая картинка.
// Масштабированный ватермарк целиком не строится: считаются только пиксели, попавшие на основу,
// поэтому память не зависит от cover. Полностью вне основы - просто ничего не рисуется.
func Composite(base, wm image.Image, p model.PlacementResult, opts model.CompositeOptions) (*image.NRGBA, error) {
	if base == nil || wm == nil {
		return nil, fmt.Errorf("%w: nil image provided to Composite", model.ErrInvalidArgument)
	}

	filter, err := ResampleFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	dst := imaging.Clone(base)

	src := wm.Bounds()
	if p.DestWidth <= 0 || p.DestHeight <= 0 || src.Empty() {
		return dst, nil
	}

	visible := image.Rect(p.X, p.Y, p.X+p.DestWidth, p.Y+p.DestHeight).Intersect(dst.Bounds())
	if visible.Empty() {
		return dst, nil
	}

	// аффинное преобразование из координат ватермарка в координаты основы
	sx := float64(p.DestWidth) / float64(src.Dx())
	sy := float64(p.DestHeight) / float64(src.Dy())
	s2d := f64.Aff3{
		sx, 0, float64(p.X) - float64(src.Min.X)*sx,
		0, sy, float64(p.Y) - float64(src.Min.Y)*sy,
	}

	op := xdraw.Over // обычное смешивание: полупрозрачные края ватермарка ложатся поверх основы
	if !opts.PreserveTransparency {
		op = xdraw.Src // пиксели ватермарка вместе с альфой заменяют пиксели основы
	}

	// SubImage ограничивает запись видимой частью прямоугольника
	target, ok := dst.SubImage(visible).(*image.NRGBA)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected canvas type", model.ErrInvalidArgument)
	}
	filter.Transform(target, s2d, wm, src, op, nil)

	return dst, nil
}
