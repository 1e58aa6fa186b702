// Package service provides business-logic for the app
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/UnendingLoop/ImageWatermark/internal/imageproc"
	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/UnendingLoop/ImageWatermark/internal/mwlogger"
	"github.com/UnendingLoop/ImageWatermark/internal/placement"
	"github.com/google/uuid"
)

// ImageStorage - контракт для работы с хранилищем
type ImageStorage interface {
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

type WatermarkService struct {
	storage      ImageStorage
	uploadPrefix string
	newID        func() string
}

func NewWatermarkService(strg ImageStorage, uploadPrefix string) *WatermarkService {
	return &WatermarkService{
		storage:      strg,
		uploadPrefix: uploadPrefix,
		newID:        func() string { return uuid.New().String() },
	}
}

// Apply накладывает ватермарк и пишет результат в PNG.
// Written в результате true, только если запись прошла без ошибки и файл/объект после нее существует.
// При ошибке декодирования любого из входов выход не создается и не трогается.
func (s WatermarkService) Apply(ctx context.Context, req *model.WatermarkRequest) (*model.WatermarkResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	params, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	// сначала ватермарк, потом основа
	wm, wmSize, err := s.load(ctx, params.watermarkPath)
	if err != nil {
		logger.Error().Err(err).Str("watermark", params.watermarkPath).Msg("Failed to load watermark")
		return nil, err
	}

	base, baseSize, err := s.load(ctx, params.basePath)
	if err != nil {
		logger.Error().Err(err).Str("base", params.basePath).Msg("Failed to load base image")
		return nil, err
	}

	place, err := placement.Compute(model.PlacementRequest{
		BaseSize:          baseSize,
		WatermarkSize:     wmSize,
		CoverPercentage:   params.cover,
		Position:          params.position,
		PaddingPercentage: params.padding,
	})
	if err != nil {
		return nil, &model.PathError{Op: "place", Path: params.watermarkPath, Err: err}
	}

	logger.Debug().
		Int("dest_width", place.DestWidth).
		Int("dest_height", place.DestHeight).
		Int("x", place.X).
		Int("y", place.Y).
		Msg("Watermark placement computed")

	result, err := imageproc.Composite(base, wm, place, params.options)
	if err != nil {
		return nil, fmt.Errorf("composite %q over %q: %w", params.watermarkPath, params.basePath, err)
	}

	res := &model.WatermarkResult{OutputPath: params.outputPath, Placement: place}

	if err := s.save(ctx, params.outputPath, result); err != nil {
		logger.Error().Err(err).Str("output", params.outputPath).Msg("Failed to write watermarked image")
		return res, err
	}

	// запись прошла - дополнительно проверяем, что результат реально на месте
	exists, err := s.storage.Exists(ctx, params.outputPath)
	if err != nil {
		return res, &model.PathError{Op: "verify", Path: params.outputPath, Err: errors.Join(model.ErrWrite, err)}
	}
	if !exists {
		return res, &model.PathError{Op: "verify", Path: params.outputPath, Err: fmt.Errorf("%w: output is missing after write", model.ErrWrite)}
	}
	res.Written = true

	logger.Info().Str("output", params.outputPath).Msg("Watermarked image written")
	return res, nil
}

// ApplyUpload кладет загруженные картинки в хранилище, применяет к ним Apply и удаляет загрузки.
// Результат остается в хранилище под ключом из WatermarkResult.OutputPath.
func (s WatermarkService) ApplyUpload(ctx context.Context, data *model.WatermarkUpload) (*model.WatermarkResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if err := validateUpload(data); err != nil {
		return nil, err
	}

	id := s.newID()
	baseKey := s.uploadPrefix + id + "-base" + model.GetImageFileExt[data.BaseContentType]
	wmKey := s.uploadPrefix + id + "-wm" + model.GetImageFileExt[data.WMContentType]
	outKey := model.DefaultOutputPrefix + id + model.GetImageFileExt[model.PNG]

	req := data.Params
	req.BasePath = baseKey
	req.WatermarkPath = wmKey
	req.OutputPath = &outKey

	// параметры проверяем до того, как что-то класть в хранилище
	if _, err := normalizeRequest(&req); err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, baseKey, data.BaseSize, data.BaseContentType, data.BaseImg); err != nil {
		logger.Error().Err(err).Msg("Failed to save base image in Storage")
		return nil, err
	}
	defer s.deleteQuietly(ctx, baseKey)

	if err := s.storage.Put(ctx, wmKey, data.WMSize, data.WMContentType, data.WMImg); err != nil {
		logger.Error().Err(err).Msg("Failed to save watermark in Storage")
		return nil, err
	}
	defer s.deleteQuietly(ctx, wmKey)

	return s.Apply(ctx, &req)
}

// Stream декодирует картинку из хранилища и пишет ее в w как PNG
func (s WatermarkService) Stream(ctx context.Context, key string, w io.Writer) error {
	img, _, err := s.load(ctx, key)
	if err != nil {
		return err
	}

	if err := imageproc.EncodePNG(w, img); err != nil {
		return &model.PathError{Op: "stream", Path: key, Err: err}
	}
	return nil
}

func (s WatermarkService) load(ctx context.Context, key string) (image.Image, model.Dimensions, error) {
	r, _, err := s.storage.Get(ctx, key)
	if err != nil {
		// отсутствующий файл - это невозможность декодировать вход; прочие сбои хранилища - нет
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.Dimensions{}, &model.PathError{Op: "decode", Path: key, Err: errors.Join(model.ErrDecode, err)}
		}
		return nil, model.Dimensions{}, &model.PathError{Op: "read", Path: key, Err: err}
	}
	defer closeFileFlow(ctx, r)

	img, size, err := imageproc.Decode(r)
	if err != nil {
		return nil, model.Dimensions{}, &model.PathError{Op: "decode", Path: key, Err: err}
	}
	return img, size, nil
}

// save кодирует в буфер целиком до записи - ошибка кодека не оставит полупустой файл
func (s WatermarkService) save(ctx context.Context, key string, img image.Image) error {
	var buf bytes.Buffer
	if err := imageproc.EncodePNG(&buf, img); err != nil {
		return &model.PathError{Op: "encode", Path: key, Err: err}
	}

	if err := s.storage.Put(ctx, key, int64(buf.Len()), model.PNG, &buf); err != nil {
		if errors.Is(err, model.ErrWrite) {
			return err
		}
		return &model.PathError{Op: "write", Path: key, Err: errors.Join(model.ErrWrite, err)}
	}
	return nil
}

func (s WatermarkService) deleteQuietly(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("key", key).Msg("Failed to delete upload from Storage")
	}
}

func closeFileFlow(ctx context.Context, res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg("Failed to close fileflow")
	}
}
