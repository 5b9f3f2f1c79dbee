// Package bootstrap arma el grafo de dependencias compartido por el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-materiales/internal/application/inventory"
	"github.com/jhoicas/inventario-materiales/internal/application/usecase"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
	"github.com/jhoicas/inventario-materiales/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-materiales/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-materiales/internal/infrastructure/textfile"
	httpRouter "github.com/jhoicas/inventario-materiales/internal/interfaces/http"
	"github.com/jhoicas/inventario-materiales/pkg/config"
	"github.com/jhoicas/inventario-materiales/pkg/jwt"
	"github.com/jhoicas/inventario-materiales/pkg/logger"
)

// Container dependencias ya cableadas. El inventario se carga en New.
type Container struct {
	Store     *inventory.Store
	ProductUC *usecase.ProductUseCase
	ReportUC  *usecase.ReportUseCase
	Metrics   *metrics.Metrics
}

// New abre el archivo configurado, carga el inventario y construye los casos de uso.
// Un registro mal formado aborta el arranque.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, withRuntimeMetrics bool) (*Container, error) {
	gw, err := textfile.NewGateway(cfg.Inventory.File, cfg.Inventory.Encoding)
	if err != nil {
		return nil, err
	}
	codec, err := domaininv.NewCodec(cfg.Inventory.Format)
	if err != nil {
		return nil, err
	}

	store := inventory.NewStore(gw, codec, logger.Component(log, "store"))
	list, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar %s: %w", gw.Path(), err)
	}

	m := metrics.New(withRuntimeMetrics)
	m.ObserveInventory(domaininv.Summarize(list))

	log.Info().
		Str("file", gw.Path()).
		Str("format", codec.Format()).
		Int("records", len(list)).
		Msg("inventario cargado")

	return &Container{
		Store:     store,
		ProductUC: usecase.NewProductUseCase(store, m),
		ReportUC:  usecase.NewReportUseCase(store, infrapdf.NewMarotoReportGenerator(cfg.Report.FontFile)),
		Metrics:   m,
	}, nil
}

// FiberApp construye la aplicación HTTP: recover, métricas, swagger (si existe el archivo), health y API.
func (c *Container) FiberApp(cfg *config.Config, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(c.Metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventario de materiales API",
		}))
	} else {
		log.Debug().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(fc *fiber.Ctx) error {
		return fc.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "records": c.Store.Len()})
	})
	app.Get("/metrics", c.Metrics.Handler())

	deps := httpRouter.RouterDeps{ProductUC: c.ProductUC, ReportUC: c.ReportUC}
	if signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL()); err == nil {
		deps.Tokens = signer
	} else {
		log.Warn().Msg("JWT_SECRET vacío: las rutas que modifican el inventario no requieren token")
	}
	httpRouter.Router(app, deps)
	return app
}
