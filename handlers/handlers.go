package handlers

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/repository"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// ValidationError carries per-field messages for a request body that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// FormatValidationErrors converts validator errors to field -> message pairs.
func FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fields
	}
	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = "Invalid email format"
		case "url":
			fields[field] = fmt.Sprintf("%s must be a valid URL", field)
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		case "gt":
			fields[field] = fmt.Sprintf("%s must be greater than %s", field, e.Param())
		case "gte":
			fields[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
		case "lte":
			fields[field] = fmt.Sprintf("%s must be less than or equal to %s", field, e.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, e.Param())
		default:
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return fields
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest("cannot parse request body")
	}
	if err := validate.Struct(dst); err != nil {
		return &ValidationError{Fields: FormatValidationErrors(err)}
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("invalid " + name)
	}
	return uint(id), nil
}

func pageQuery(c *fiber.Ctx) repository.Page {
	return repository.Page{
		Skip:  c.QueryInt("skip", 0),
		Limit: c.QueryInt("limit", repository.DefaultLimit),
	}.Normalize()
}

func optionalID(c *fiber.Ctx, name string) *uint {
	v := c.QueryInt(name, 0)
	if v <= 0 {
		return nil
	}
	id := uint(v)
	return &id
}

// upload is a multipart file opened for reading.
type upload struct {
	io.ReadCloser
	Filename    string
	ContentType string
}

func formFile(c *fiber.Ctx, field string) (*upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, apperror.BadRequest("file is required")
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindBadRequest, "cannot read uploaded file", err)
	}
	return &upload{ReadCloser: f, Filename: header.Filename, ContentType: header.Header.Get(fiber.HeaderContentType)}, nil
}

// ErrorHandler renders every error as {"status":"error","code","kind","message"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"code":    fiber.StatusBadRequest,
			"kind":    apperror.KindBadRequest,
			"message": validationErr.Error(),
			"errors":  validationErr.Fields,
		})
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := apperror.HTTPStatus(appErr.Kind)
		if status >= fiber.StatusInternalServerError {
			loggers.Log.WithError(err).WithField("path", c.Path()).Error("🔥 Request failed")
		}
		return errorJSON(c, status, appErr.Kind, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return errorJSON(c, fiberErr.Code, kindForStatus(fiberErr.Code), fiberErr.Message)
	}

	loggers.Log.WithError(err).WithField("path", c.Path()).Error("🔥 Unhandled error")
	return errorJSON(c, fiber.StatusInternalServerError, apperror.KindInternal, "internal server error")
}

func errorJSON(c *fiber.Ctx, status int, kind apperror.Kind, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"code":    status,
		"kind":    kind,
		"message": message,
	})
}

func kindForStatus(status int) apperror.Kind {
	switch status {
	case fiber.StatusUnauthorized:
		return apperror.KindUnauthenticated
	case fiber.StatusForbidden:
		return apperror.KindForbidden
	case fiber.StatusNotFound:
		return apperror.KindNotFound
	case fiber.StatusConflict:
		return apperror.KindConflict
	case fiber.StatusTooManyRequests:
		return apperror.KindRateLimited
	case fiber.StatusServiceUnavailable:
		return apperror.KindUnavailable
	}
	if status >= fiber.StatusInternalServerError {
		return apperror.KindInternal
	}
	return apperror.KindBadRequest
}

func Health(appName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": appName})
	}
}
