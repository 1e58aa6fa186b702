// Package placement computes where and how big a watermark lands on a base image.
package placement

import (
	"fmt"
	"math"
	"strings"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
)

const (
	tokenLeft   = "left"
	tokenRight  = "right"
	tokenTop    = "top"
	tokenBottom = "bottom"
)

// Compute returns the destination size and top-left offset of the watermark.
// Rounding is half away from zero (math.Round) at every step.
// The only failure is a watermark of zero width.
func Compute(req model.PlacementRequest) (model.PlacementResult, error) {
	if req.WatermarkSize.Width == 0 {
		return model.PlacementResult{}, fmt.Errorf("%w: watermark width is zero", model.ErrInvalidArgument)
	}

	baseW := float64(req.BaseSize.Width)
	baseH := float64(req.BaseSize.Height)

	// ширина по cover-проценту, высота по тому же коэффициенту - сохраняем ратио
	destW := math.Round(baseW * float64(req.CoverPercentage) / 100)
	destH := math.Round(float64(req.WatermarkSize.Height) * destW / float64(req.WatermarkSize.Width))

	// по дефолту - центр
	x := math.Round(baseW/2 - destW/2)
	y := math.Round(baseH/2 - destH/2)

	if req.Position != "" {
		// отступ всегда считается от ширины основы, в том числе по вертикали
		padding := math.Round(baseW * float64(req.PaddingPercentage) / 100)
		position := strings.ToLower(req.Position)

		if strings.Contains(position, tokenLeft) {
			x = padding
		}
		if strings.Contains(position, tokenRight) {
			x = math.Round(baseW - destW - padding)
		}
		if strings.Contains(position, tokenTop) {
			y = padding
		}
		if strings.Contains(position, tokenBottom) {
			y = math.Round(baseH - destH - padding)
		}
	}

	return model.PlacementResult{
		DestWidth:  int(destW),
		DestHeight: int(destH),
		X:          int(x),
		Y:          int(y),
	}, nil
}

