// Package transport provides methods for processing requests from endpoints
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/wb-go/wbf/ginext"
)

const (
	ResultKeyHeader = "X-Result-Key"
	multipartMemory = 32 << 20
)

type ImageHandler struct {
	service        WatermarkService
	maxUploadBytes int64
}

type WatermarkService interface {
	ApplyUpload(ctx context.Context, data *model.WatermarkUpload) (*model.WatermarkResult, error) // наложить на загруженные картинки
	Stream(ctx context.Context, key string, w io.Writer) error                                    // отдать картинку из хранилища как PNG
}

func NewImageHandler(svc WatermarkService, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{
		service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h ImageHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h ImageHandler) Watermark(ctx *ginext.Context) {
	if h.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxUploadBytes)
	}

	if err := ctx.Request.ParseMultipartForm(multipartMemory); err != nil {
		err = fmt.Errorf("%w: invalid multipart form: %w", model.ErrInvalidArgument, err)
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	// парсинг параметров наложения
	params, err := parseWatermarkParams(ctx)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	// парсинг исходника
	imageFile, imageHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "image is required"})
		return
	}
	defer closeFileFlow(imageFile)

	// парсинг ватермарка
	wmFile, wmHeader, err := ctx.Request.FormFile("watermark")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "watermark is required"})
		return
	}
	defer closeFileFlow(wmFile)

	// собираем все в структуру
	upload := model.WatermarkUpload{
		BaseImg:         imageFile,
		BaseContentType: imageHeader.Header.Get("Content-Type"),
		BaseSize:        imageHeader.Size,
		WMImg:           wmFile,
		WMContentType:   wmHeader.Header.Get("Content-Type"),
		WMSize:          wmHeader.Size,
		Params:          params,
	}

	// передаем в сервис
	res, err := h.service.ApplyUpload(ctx.Request.Context(), &upload)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.Header(ResultKeyHeader, res.OutputPath)
	h.writePNG(ctx, res.OutputPath)
}

func (h ImageHandler) LoadImage(ctx *ginext.Context) {
	key := strings.TrimPrefix(ctx.Param("key"), "/")
	if key == "" {
		ctx.JSON(400, map[string]string{"error": "image key is required"})
		return
	}
	// только ключи внутри хранилища: без абсолютных путей и выходов через ".."
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		ctx.JSON(400, map[string]string{"error": "invalid image key"})
		return
	}

	h.writePNG(ctx, key)
}

// writePNG кодирует картинку в буфер целиком, чтобы при ошибке можно было ответить JSON-ом, а не оборванным PNG
func (h ImageHandler) writePNG(ctx *ginext.Context, key string) {
	var buf bytes.Buffer
	if err := h.service.Stream(ctx.Request.Context(), key, &buf); err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.Writer.Header().Set("Content-Type", model.PNG)
	ctx.Writer.WriteHeader(200)
	if n, err := io.Copy(ctx.Writer, &buf); err != nil {
		log.Printf("Failed to write response at byte %d for image %q: %v", n, key, err)
	}
}
