package transport

import (
	"context"
	"io"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/gin-gonic/gin"
)

type mockWatermarkService struct {
	applyUploadFn func(ctx context.Context, d *model.WatermarkUpload) (*model.WatermarkResult, error)
	streamFn      func(ctx context.Context, key string, w io.Writer) error
}

func (m *mockWatermarkService) ApplyUpload(ctx context.Context, d *model.WatermarkUpload) (*model.WatermarkResult, error) {
	return m.applyUploadFn(ctx, d)
}

func (m *mockWatermarkService) Stream(ctx context.Context, key string, w io.Writer) error {
	return m.streamFn(ctx, key, w)
}

func init() {
	gin.SetMode(gin.TestMode)
}
