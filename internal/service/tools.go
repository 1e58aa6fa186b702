package service

import (
	"fmt"
	"path/filepath"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
)

type applyParams struct {
	basePath      string
	watermarkPath string
	outputPath    string
	cover         int
	position      string
	padding       int
	options       model.CompositeOptions
}

// normalizeRequest подставляет дефолты вместо nil-полей и валидирует значения
func normalizeRequest(req *model.WatermarkRequest) (applyParams, error) {
	var p applyParams
	if req == nil {
		return p, fmt.Errorf("%w: nil request", model.ErrInvalidArgument)
	}

	if req.BasePath == "" {
		return p, model.ErrEmptySource
	}
	if req.WatermarkPath == "" {
		return p, model.ErrEmptyWMark
	}
	p.basePath = req.BasePath
	p.watermarkPath = req.WatermarkPath

	p.cover = model.DefaultCoverPercentage
	if req.CoverPercentage != nil {
		p.cover = *req.CoverPercentage
	}
	if p.cover <= 0 {
		return p, model.ErrIncorrectCover
	}

	// явно переданная пустая позиция остается пустой - это центр без отступов
	p.position = model.DefaultPosition
	if req.Position != nil {
		p.position = *req.Position
	}

	p.padding = model.DefaultPaddingPercentage
	if req.PaddingPercentage != nil {
		p.padding = *req.PaddingPercentage
	}
	if p.padding < 0 {
		return p, model.ErrIncorrectPadding
	}

	p.options.PreserveTransparency = true
	if req.PreserveTransparency != nil {
		p.options.PreserveTransparency = *req.PreserveTransparency
	}

	if req.Filter != "" {
		if _, ok := model.FiltersMap[req.Filter]; !ok {
			return p, fmt.Errorf("%w: %q", model.ErrIncorrectFilter, req.Filter)
		}
	}
	p.options.Filter = req.Filter

	switch {
	case req.OutputPath == nil:
		p.outputPath = DefaultOutputPath(req.BasePath)
	case *req.OutputPath == "":
		return p, fmt.Errorf("%w: empty output path", model.ErrInvalidArgument)
	default:
		p.outputPath = *req.OutputPath
	}

	return p, nil
}

// DefaultOutputPath - "watermarked-" + имя файла основы, в той же директории
func DefaultOutputPath(basePath string) string {
	dir, file := filepath.Split(basePath)
	return dir + model.DefaultOutputPrefix + file
}

func validateUpload(data *model.WatermarkUpload) error {
	if data == nil {
		return fmt.Errorf("%w: nil upload", model.ErrInvalidArgument)
	}

	// корректен ли исходник
	if data.BaseImg == nil || data.BaseSize <= 0 {
		return model.ErrEmptySource
	}
	if !model.InImageTypeMap[data.BaseContentType] {
		return fmt.Errorf("%w: base image %q", model.ErrUnsupportedFormat, data.BaseContentType)
	}

	// корректен ли ватермарк
	if data.WMImg == nil || data.WMSize <= 0 {
		return model.ErrEmptyWMark
	}
	if !model.InImageTypeMap[data.WMContentType] {
		return fmt.Errorf("%w: watermark %q", model.ErrUnsupportedFormat, data.WMContentType)
	}

	return nil
}
