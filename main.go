package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"expedientes_backend/internals/configs"
	database "expedientes_backend/internals/databases"
	disposicionModel "expedientes_backend/internals/features/disposiciones/model"
	docenteModel "expedientes_backend/internals/features/docentes/model"
	escuelaModel "expedientes_backend/internals/features/escuelas/model"
	expedienteModel "expedientes_backend/internals/features/expedientes/model"
	authModel "expedientes_backend/internals/features/users/auth/model"
	scheduler "expedientes_backend/internals/features/users/auth/scheduler"
	helper "expedientes_backend/internals/helpers"
	middlewares "expedientes_backend/internals/middlewares"
	routes "expedientes_backend/internals/route"
	seeds "expedientes_backend/internals/seeds"
)

// jsonErrorHandler mantiene el shape {"error": "..."} también para los
// errores que devuelven los middlewares vía fiber.NewError.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(helper.ErrorResponse{Error: err.Error()})
}

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON rápido
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ErrorHandler:          jsonErrorHandler,
	})

	// ⚙️ middleware base + performance
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                 // 304 caching

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// timeout HTTP alineado con el statement_timeout de la DB
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// 🗄️ Migraciones
	if err := database.DB.AutoMigrate(
		&authModel.UserModel{},
		&authModel.TokenBlacklist{},
		&docenteModel.DocenteModel{},
		&escuelaModel.EscuelaModel{},
		&expedienteModel.ExpedienteModel{},
		&expedienteModel.ExpedienteDocente{},
		&expedienteModel.ExpedienteEscuela{},
		&disposicionModel.DisposicionModel{},
	); err != nil {
		log.Fatalf("❌ Error en migraciones: %v", err)
	}

	// 🌱 Seeders opcionales
	seeds.Run(database.DB)

	// ⏱ scheduler una vez lista la DB
	scheduler.StartBlacklistCleanupScheduler(database.DB)

	// ❤️ Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "expedientes_backend",
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// ✅ Rutas
	routes.SetupRoutes(app, database.DB)

	// 🔒 timeouts del servidor
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Escuchando en :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// apagado prolijo + cierre del pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
