package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/wb-go/wbf/ginext"
)

func errorCodeDefiner(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr):
		return 413
	case errors.Is(err, model.ErrNotFound):
		return 404
	case errors.Is(err, model.ErrDecode):
		return 422
	case errors.Is(err, model.ErrInvalidArgument),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrEmptyWMark),
		errors.Is(err, model.ErrIncorrectCover),
		errors.Is(err, model.ErrIncorrectPadding),
		errors.Is(err, model.ErrIncorrectFilter),
		errors.Is(err, model.ErrUnsupportedFormat):
		return 400
	default:
		return 500
	}
}

// parseWatermarkParams - отсутствующее поле формы остается nil и дефолтится в сервисе
func parseWatermarkParams(ctx *ginext.Context) (model.WatermarkRequest, error) {
	var req model.WatermarkRequest

	cover, err := optionalInt(ctx, "cover")
	if err != nil {
		return req, err
	}
	req.CoverPercentage = cover

	padding, err := optionalInt(ctx, "padding")
	if err != nil {
		return req, err
	}
	req.PaddingPercentage = padding

	if pos, ok := ctx.GetPostForm("position"); ok {
		req.Position = &pos
	}

	if raw, ok := ctx.GetPostForm("preserve_transparency"); ok && raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("%w: preserve_transparency=%q", model.ErrInvalidArgument, raw)
		}
		req.PreserveTransparency = &val
	}

	req.Filter = model.ResampleFilter(ctx.PostForm("filter"))

	return req, nil
}

func optionalInt(ctx *ginext.Context, field string) (*int, error) {
	raw, ok := ctx.GetPostForm(field)
	if !ok || raw == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", model.ErrInvalidArgument, field, raw)
	}
	return &val, nil
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}
