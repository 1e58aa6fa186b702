// Package main provides the watermark CLI: one watermark operation per invocation
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/UnendingLoop/ImageWatermark/internal/mwlogger"
	"github.com/UnendingLoop/ImageWatermark/internal/service"
	"github.com/UnendingLoop/ImageWatermark/internal/storage"
	"github.com/UnendingLoop/ImageWatermark/internal/storage/filestorage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/config"
)

type cliOptions struct {
	cover                int
	position             string
	padding              int
	output               string
	preserveTransparency bool
	filter               string
	print                bool
	verbose              bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "watermark BASE WATERMARK",
		Short: "Overlay a watermark image onto a base image and write the result as PNG",
		Long: `watermark scales the watermark to a percentage of the base image width,
keeps its aspect ratio and places it by a position keyword (any mix of
top/bottom/left/right, matched case-insensitively; anything else means centre).

Examples:
  # 20% of the width, bottom-right corner, 4% padding
  watermark image-1.jpg logo.png --cover 20 --position Bottom-Right --padding 4 -o output.png

  # defaults: 50% width, centred, written to watermarked-image-2.jpg
  watermark image-2.jpg logo.png

  # write the result and stream it to stdout
  watermark image-2.jpg logo.png --print > preview.png`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatermark(cmd, args, opts, stdout)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.cover, "cover", model.DefaultCoverPercentage, "watermark width as a percentage of the base image width")
	f.StringVar(&opts.position, "position", model.DefaultPosition, "position keyword, e.g. Top-Left, Bottom-Right, centre")
	f.IntVar(&opts.padding, "padding", model.DefaultPaddingPercentage, "padding from the anchored edges as a percentage of the base image width")
	f.StringVarP(&opts.output, "output", "o", "", "output path (default: watermarked-<base file name>)")
	f.BoolVar(&opts.preserveTransparency, "preserve-transparency", true, "alpha-blend the watermark; false copies its pixels with alpha as is")
	f.StringVar(&opts.filter, "filter", string(model.FilterNearest), "resample filter: nearest, linear, catmullrom, lanczos")
	f.BoolVar(&opts.print, "print", false, "stream the result PNG to stdout after writing it")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	return cmd
}

func runWatermark(cmd *cobra.Command, args []string, opts *cliOptions, stdout io.Writer) error {
	appConfig := config.New()
	appConfig.EnableEnv("")
	if _, err := os.Stat("./.env"); err == nil {
		if err := appConfig.LoadEnvFiles("./.env"); err != nil {
			return fmt.Errorf("load envs: %w", err)
		}
	}

	// логи только в stderr - stdout может быть занят PNG-ом при --print
	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Str("base", args[0]).
		Logger()

	strg, err := cliStorage(appConfig)
	if err != nil {
		return err
	}

	svc := service.NewWatermarkService(strg, "")
	ctx := mwlogger.WithLogger(context.Background(), logger)

	req := buildRequest(cmd, args, opts)
	res, err := svc.Apply(ctx, req)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "watermark failed:", err)
		return err
	}

	if opts.print {
		return svc.Stream(ctx, res.OutputPath, stdout)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "written %s (%dx%d at %d,%d)\n",
		res.OutputPath, res.Placement.DestWidth, res.Placement.DestHeight, res.Placement.X, res.Placement.Y)
	return nil
}

// cliStorage - аргументы CLI это пути в ФС, поэтому STORAGE_ROOT здесь не действует.
// MinIO - только если он явно указан в STORAGE_BACKEND.
// Отсутствующая директория вывода - ошибка, сами ничего не создаем.
func cliStorage(cfg *config.Config) (storage.ImageStorage, error) {
	if cfg.GetString("STORAGE_BACKEND") == storage.BackendMinio {
		return storage.NewImgStorage(cfg, false, 1, time.Second)
	}
	return filestorage.NewFileStorage("", false), nil
}

// buildRequest - флаги, которые пользователь не трогал, остаются nil и дефолтятся сервисом
func buildRequest(cmd *cobra.Command, args []string, opts *cliOptions) *model.WatermarkRequest {
	req := &model.WatermarkRequest{
		BasePath:      args[0],
		WatermarkPath: args[1],
		Filter:        model.ResampleFilter(opts.filter),
	}

	f := cmd.Flags()
	if f.Changed("cover") {
		req.CoverPercentage = &opts.cover
	}
	if f.Changed("position") {
		req.Position = &opts.position
	}
	if f.Changed("padding") {
		req.PaddingPercentage = &opts.padding
	}
	if f.Changed("output") {
		req.OutputPath = &opts.output
	}
	if f.Changed("preserve-transparency") {
		req.PreserveTransparency = &opts.preserveTransparency
	}

	return req
}
