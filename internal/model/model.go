// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"fmt"
	"io"
)

// Dimensions - размер декодированной картинки в пикселях
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type PlacementRequest struct {
	BaseSize          Dimensions
	WatermarkSize     Dimensions
	CoverPercentage   int
	Position          string
	PaddingPercentage int
}

// PlacementResult - X и Y знаковые: отступы и cover > 100 могут вытолкнуть ватермарк за края основы
type PlacementResult struct {
	DestWidth  int `json:"dest_width"`
	DestHeight int `json:"dest_height"`
	X          int `json:"x"`
	Y          int `json:"y"`
}

//---------------------

type ResampleFilter string

const (
	FilterNearest    ResampleFilter = "nearest"
	FilterLinear     ResampleFilter = "linear"
	FilterCatmullRom ResampleFilter = "catmullrom"
	FilterLanczos    ResampleFilter = "lanczos"
)

var FiltersMap = map[ResampleFilter]bool{
	FilterNearest:    true,
	FilterLinear:     true,
	FilterCatmullRom: true,
	FilterLanczos:    true,
}

type CompositeOptions struct {
	PreserveTransparency bool
	Filter               ResampleFilter
}

//---------------------

const (
	DefaultCoverPercentage   = 50
	DefaultPosition          = "centre"
	DefaultPaddingPercentage = 0
	DefaultOutputPrefix      = "watermarked-"
)

// WatermarkRequest - параметры одной операции наложения.
// nil-поля означают "не указано" и заменяются дефолтами до использования.
type WatermarkRequest struct {
	BasePath             string
	WatermarkPath        string
	CoverPercentage      *int
	Position             *string
	PaddingPercentage    *int
	OutputPath           *string
	PreserveTransparency *bool
	Filter               ResampleFilter
}

type WatermarkResult struct {
	OutputPath string          `json:"output_path"`
	Placement  PlacementResult `json:"placement"`
	Written    bool            `json:"written"`
}

// WatermarkUpload - данные из HTTP-запроса: две картинки и параметры наложения.
// BasePath, WatermarkPath и OutputPath в Params игнорируются - ключи генерирует сервис.
type WatermarkUpload struct {
	BaseImg         io.Reader
	BaseContentType string
	BaseSize        int64
	WMImg           io.Reader
	WMContentType   string
	WMSize          int64
	Params          WatermarkRequest
}

// ------------------

var (
	ErrCommon500         error = errors.New("something went wrong. Try again later") // 500
	ErrDecode            error = errors.New("failed to decode image")                // 422
	ErrEncode            error = errors.New("failed to encode image")                // 500
	ErrWrite             error = errors.New("failed to write image")                 // 500
	ErrInvalidArgument   error = errors.New("invalid argument")                      // 400
	ErrNotFound          error = errors.New("image not found")                       // 404
	ErrEmptySource       error = errors.New("empty/incorrect source image provided") // 400
	ErrEmptyWMark        error = errors.New("empty/incorrect watermark provided")    // 400
	ErrIncorrectCover    error = errors.New("cover percentage must be positive")     // 400
	ErrIncorrectPadding  error = errors.New("padding percentage must not be negative")
	ErrIncorrectFilter   error = errors.New("unsupported resample filter")
	ErrUnsupportedFormat error = errors.New("unsupported image format") // 400
)

// PathError привязывает ошибку к файлу/ключу, на котором она случилась.
// Цепочка Err содержит одну из sentinel-ошибок выше.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
}

var InImageTypeMap = map[string]bool{
	JPEG: true,
	PNG:  true,
	GIF:  true,
}
