package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/disintegration/imaging"
)

// Decode декодирует PNG/JPEG/GIF/BMP/TIFF и возвращает картинку вместе с ее размерами.
// Картинка с нулевой шириной или высотой считается ошибкой декодирования.
func Decode(r io.Reader) (image.Image, model.Dimensions, error) {
	if r == nil {
		return nil, model.Dimensions{}, fmt.Errorf("%w: nil-reader provided", model.ErrDecode)
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, model.Dimensions{}, errors.Join(model.ErrDecode, err)
	}

	size := model.Dimensions{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, model.Dimensions{}, fmt.Errorf("%w: empty image %dx%d", model.ErrDecode, size.Width, size.Height)
	}

	return img, size, nil
}

// EncodePNG пишет картинку в w всегда в PNG, независимо от формата исходника
func EncodePNG(w io.Writer, img image.Image) error {
	if w == nil {
		return fmt.Errorf("%w: nil-writer provided", model.ErrEncode)
	}
	if img == nil {
		return fmt.Errorf("%w: nil image provided", model.ErrEncode)
	}

	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return errors.Join(model.ErrEncode, err)
	}
	return nil
}
