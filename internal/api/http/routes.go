package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/i474232898/weather-companion/internal/app"
	"github.com/i474232898/weather-companion/internal/store"
	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/update"
	"github.com/i474232898/weather-companion/internal/weather"
)

var validate = validator.New()

// Controller is the part of the core the API drives. Every mutating call
// only enqueues an event.
type Controller interface {
	View() app.View
	SearchLocations(query string) error
	SelectLocation(p weather.LocationPoint) error
	Refresh() error
	SetUnits(u units.Units) error
}

// History lists earlier preference writes.
type History interface {
	History() []store.Saved
}

// NewApp returns a Fiber app with the shared error handler, middleware and
// health endpoint.
func NewApp(name string) *fiber.App {
	a := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	a.Use(logger.New())
	a.Use(recover.New())

	a.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": name,
		})
	})
	return a
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. history may be
// nil, in which case the history endpoint is not registered.
func RegisterRoutes(a *fiber.App, ctl Controller, history History) {
	v1 := a.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(ctl.View())
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		snapshot := ctl.View().Weather
		if snapshot == nil {
			return fiber.NewError(fiber.StatusNotFound, "no weather data available")
		}
		if c.Query("format") == "msgpack" {
			return writeMsgPack(c, snapshot)
		}
		return c.JSON(snapshot)
	})

	v1.Post("/location/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		return accepted(c, ctl.SearchLocations(req.Query))
	})

	v1.Post("/location/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		return accepted(c, ctl.SelectLocation(req.toPoint()))
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		return accepted(c, ctl.Refresh())
	})

	v1.Post("/units", func(c *fiber.Ctx) error {
		var req unitsRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := units.Parse(req.Units)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return accepted(c, ctl.SetUnits(u))
	})

	if history != nil {
		v1.Get("/preferences/history", func(c *fiber.Ctx) error {
			saved := history.History()
			if len(saved) == 0 {
				return fiber.NewError(fiber.StatusNotFound, store.ErrNotFound.Error())
			}
			return c.JSON(fiber.Map{
				"count":   len(saved),
				"history": saved,
			})
		})
	}
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

// selectRequest uses pointers so that a missing coordinate is told apart
// from zero.
type selectRequest struct {
	Label     string   `json:"label" validate:"required"`
	Latitude  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

func (r selectRequest) toPoint() weather.LocationPoint {
	return weather.LocationPoint{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Label:     strings.TrimSpace(r.Label),
	}
}

type unitsRequest struct {
	Units string `json:"units" validate:"required,oneof=metric imperial"`
}

func bind(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// accepted maps the result of enqueueing an event onto a response.
func accepted(c *fiber.Ctx, err error) error {
	switch {
	case err == nil:
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "queued"})
	case errors.Is(err, app.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, update.ErrClosed):
		return fiber.NewError(fiber.StatusServiceUnavailable, "shutting down")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func writeMsgPack(c *fiber.Ctx, data any) error {
	c.Set(fiber.HeaderContentType, "application/x-msgpack")
	encoder := msgpack.NewEncoder(c.Response().BodyWriter())
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
