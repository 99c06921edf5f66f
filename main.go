package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	database "savethedate_backend/internals/databases"
	helper "savethedate_backend/internals/helpers"
	middlewares "savethedate_backend/internals/middlewares"
	"savethedate_backend/internals/middlewares/logger"
	routes "savethedate_backend/internals/route"
)

func main() {
	configs.InitLogger("api")
	configs.LoadEnv()

	cfg := fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             12 * 1024 * 1024,
		ErrorHandler:          helper.FromFiberError,
	}
	middlewares.TrustProxies(&cfg, configs.GetEnvList("TRUSTED_PROXIES"))
	app := fiber.New(cfg)

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(middlewares.GlobalRateLimiter())

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Info().Str("port", port).Msg("listening")
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	database.Close(database.DB)
}
