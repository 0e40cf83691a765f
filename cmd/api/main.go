package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/config"
	"alfredoptarigan/resume-shortlister/internal/handlers"
	"alfredoptarigan/resume-shortlister/internal/services"
	"alfredoptarigan/resume-shortlister/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Log.Level, cfg.Server.Env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.For("api")

	if err := os.MkdirAll(cfg.Storage.UploadPath, 0755); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewDocumentExtractor(log)
	evaluator := services.NewCriteriaEvaluator(
		extractor,
		services.NewFieldExtractor(),
		services.NewExperienceMatcher(),
		log,
	)
	screener := services.NewBatchScreener(evaluator, cfg.Screening.Concurrency, log)
	writer := services.NewShortlistWriter(log)
	log.Info("services initialized", zap.Int("concurrency", cfg.Screening.Concurrency))

	screenHandler := handlers.NewScreenHandler(
		screener,
		writer,
		cfg.Storage.UploadPath,
		cfg.Screening.ShortlistDir,
		cfg.Storage.MaxFileSize,
		log,
	)
	extractHandler := handlers.NewExtractHandler(extractor, cfg.Storage.MaxFileSize)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Shortlister API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		// Several resumes travel in one screening request.
		BodyLimit:         int(cfg.Storage.MaxFileSize) * 20,
		ErrorHandler:      handlers.ErrorHandler,
		EnablePrintRoutes: cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app.Group("/api/v1"), screenHandler, extractHandler)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Shortlister API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/health",
				"POST /api/v1/screen",
				"POST /api/v1/extract",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
