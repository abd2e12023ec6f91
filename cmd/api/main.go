package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/manosunidas/donaciones-api/internal/application/auth"
	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/application/usecase"
	infrapdf "github.com/manosunidas/donaciones-api/internal/infrastructure/pdf"
	"github.com/manosunidas/donaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/manosunidas/donaciones-api/internal/interfaces/http"
	"github.com/manosunidas/donaciones-api/pkg/config"
	"github.com/manosunidas/donaciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	refreshRepo := postgres.NewRefreshTokenRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := inventory.NewStockUseCase(txRunner, lotRepo)
	lotUC := inventory.NewLotUseCase(txRunner, lotRepo, movementRepo, productRepo, userRepo)
	movementUC := inventory.NewMovementUseCase(stockUC, movementRepo, lotRepo, userRepo)
	kitUC := inventory.NewKitUseCase(productRepo, userRepo, movementRepo, stockUC, lotUC)
	donationUC := inventory.NewDonationUseCase(lotUC)

	labelGenerator := infrapdf.NewMarotoLabelGenerator()
	labelUC := inventory.NewLabelUseCase(lotRepo, productRepo, labelGenerator)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := usecase.NewDashboardUseCase(lotRepo, movementRepo, productRepo)

	authUC := auth.NewAuthUseCase(userRepo, refreshRepo, auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		ExpMinutes:     cfg.JWT.Expiration,
		RefreshExpDays: cfg.JWT.RefreshExpDays,
		Issuer:         cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Donaciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		CategoryUC:  categoryUC,
		ProductUC:   productUC,
		DashboardUC: dashboardUC,
		LotUC:       lotUC,
		MovementUC:  movementUC,
		KitUC:       kitUC,
		DonationUC:  donationUC,
		LabelUC:     labelUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
