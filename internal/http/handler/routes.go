package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"constellationapi/docs"
	"constellationapi/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CreateConstellationRequest is the body of POST /constellations.
type CreateConstellationRequest struct {
	Shape string `json:"shape"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, store Pinger, svc service.ConstellationService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))
	app.Get("/swagger/*", SwaggerUI())

	app.Post("/constellations", CreateConstellation(svc))
	app.Get("/constellations/:ref", GetConstellation(svc))
}

// HealthCheck pings the store.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} errorPayload
// @Router   /health [get]
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the Prometheus registry.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// ConfigureDocs sets the host advertised by the generated API docs.
// It must run before the app starts serving.
func ConfigureDocs(host string) {
	docs.SwaggerInfo.Host = host
}

// SwaggerUI serves the generated API docs.
func SwaggerUI() fiber.Handler {
	return swagger.HandlerDefault
}

// CreateConstellation stores a new drawing.
//
// @Summary  Store a constellation
// @Tags     constellations
// @Accept   json
// @Produce  json
// @Param    body body CreateConstellationRequest true "shape string"
// @Success  201 {object} model.Constellation
// @Failure  400 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /constellations [post]
func CreateConstellation(svc service.ConstellationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateConstellationRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be JSON with a shape field")
		}

		rec, err := svc.WriteConstellation(c.UserContext(), req.Shape)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// GetConstellation loads a drawing by ref.
//
// @Summary  Load a constellation
// @Tags     constellations
// @Produce  json
// @Param    ref path string true "record ref"
// @Success  200 {object} model.Constellation
// @Failure  404 {object} errorPayload
// @Failure  503 {object} errorPayload
// @Router   /constellations/{ref} [get]
func GetConstellation(svc service.ConstellationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Params aliases the request buffer, which fiber reuses once the handler returns.
		rec, err := svc.LoadDrawing(c.UserContext(), utils.CopyString(c.Params("ref")))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}
