package middleware

import (
	"errors"
	"log"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/sentencing-platform/calc-service/internal/models"
)

// requestIDFromContext reads the id stamped by requestid.New(), returning ""
// when the middleware never ran (e.g. in a handler test with a bare app).
func requestIDFromContext(c *fiber.Ctx) string {
	if id := c.Locals(requestid.ConfigDefault.ContextKey); id != nil {
		return id.(string)
	}
	return ""
}

// AppError is a handler-raised error carrying the HTTP status and the
// `detail` value to render verbatim (§6: `{"detail": <string or array>}`).
// Detail is either a plain string or a []models.ValidationErrorItem.
type AppError struct {
	Status int
	Detail interface{}
}

func (e *AppError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return "request failed"
}

func NewNotFound(detail string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Detail: detail}
}

func NewBadRequest(detail string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Detail: detail}
}

func NewUnprocessable(detail interface{}) *AppError {
	return &AppError{Status: fiber.StatusUnprocessableEntity, Detail: detail}
}

func NewInternal(detail string) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Detail: detail}
}

// ErrorHandlerConfig controls how much internal detail the handler leaks.
type ErrorHandlerConfig struct {
	EnableLogging      bool
	ShowInternalErrors bool
}

func DefaultErrorHandlerConfig() *ErrorHandlerConfig {
	return &ErrorHandlerConfig{
		EnableLogging:      true,
		ShowInternalErrors: false,
	}
}

// ErrorHandlerMiddleware recovers panics and translates handler errors into
// the uniform `{"detail": ...}` envelope (§6/§7).
func ErrorHandlerMiddleware(config ...*ErrorHandlerConfig) fiber.Handler {
	cfg := DefaultErrorHandlerConfig()
	if len(config) > 0 && config[0] != nil {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				requestID := requestIDFromContext(c)
				if cfg.EnableLogging {
					log.Printf("[PANIC] [%s] %v\n%s", requestID, r, debug.Stack())
				}
				c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Detail: "An unexpected error occurred"})
			}
		}()

		err := c.Next()
		if err != nil {
			return handleError(c, err, cfg)
		}
		return nil
	}
}

// ErrorHandler is wired directly as fiber.Config.ErrorHandler and receives
// every error a route handler or middleware returns to the app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return handleError(c, err, DefaultErrorHandlerConfig())
}

func handleError(c *fiber.Ctx, err error, cfg *ErrorHandlerConfig) error {
	requestID := requestIDFromContext(c)
	if cfg.EnableLogging {
		log.Printf("[ERROR] [%s] %s %s - %v", requestID, c.Method(), c.Path(), err)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(models.ErrorResponse{Detail: appErr.Detail})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Detail: fiberErr.Message})
	}

	detail := "An internal server error occurred"
	if cfg.ShowInternalErrors {
		detail = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Detail: detail})
}

// RequestLoggingMiddleware logs method, path, status and latency per request.
func RequestLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Printf("[REQUEST] [%s] %s %s %d - %v - %s",
			requestIDFromContext(c), c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start), c.IP())
		return err
	}
}
