// Package main (in api-subfolder) provides launch of the HTTP watermarking service
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/UnendingLoop/ImageWatermark/internal/mwlogger"
	"github.com/UnendingLoop/ImageWatermark/internal/service"
	"github.com/UnendingLoop/ImageWatermark/internal/storage"
	"github.com/UnendingLoop/ImageWatermark/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

const defaultMaxUpload = 20 << 20

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if _, err := os.Stat("./.env"); err == nil {
		if err := appConfig.LoadEnvFiles("./.env"); err != nil {
			log.Fatalf("Failed to load envs: %s\nExiting app...", err)
		}
	}

	// стартуем логгер
	zlog.InitConsole()
	level := appConfig.GetString("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	if err := zlog.SetLevel(level); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подключиться к хранилищу; для API директории создаются сами
	strg, err := storage.NewImgStorage(appConfig, true, 5, 10*time.Second)
	if err != nil {
		log.Fatalf("Failed to init IMG-storage: %v", err)
	}

	// создаем экземпляр сервиса
	svc := service.NewWatermarkService(strg, "uploads/")

	// cоздаем экземпляр хендлера HTTP
	maxUpload, err := strconv.ParseInt(appConfig.GetString("UPLOAD_MAX_BYTES"), 10, 64)
	if err != nil || maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	handlers := transport.NewImageHandler(svc, maxUpload)

	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/watermark", handlers.Watermark)  // наложение, в ответе сразу PNG
	engine.GET("/images/*key", handlers.LoadImage) // любая картинка из хранилища как PNG

	port := appConfig.GetString("APP_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mwlogger.NewMWLogger(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// ждем отмены контекста для запуска грейсфул остановки сервера
	<-ctx.Done()

	shutdown(srv)
	log.Println("Exiting app...")
}

func shutdown(srv *http.Server) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Failed to shutdown HTTP-server correctly:", err)
		return
	}
	log.Println("HTTP-server stopped")
}
