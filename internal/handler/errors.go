package handler

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/middleware"
	"github.com/KeplerDE/kinos-go/internal/repository"
	"github.com/KeplerDE/kinos-go/internal/service"
)

// writeError maps a service error to the API error body. notFound is the
// message used when the target row does not exist; failed describes the
// operation in the 500 response.
func writeError(c fiber.Ctx, err error, notFound, failed string) error {
	var fe *service.FieldError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", notFound)
	case errors.As(err, &fe):
		return middleware.ValidationErrorResponse(c, map[string]string{fe.Field: fe.Message})
	case errors.Is(err, repository.ErrConflict):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "CONFLICT", "An entry with this url already exists")
	case errors.Is(err, repository.ErrReference):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_REFERENCE", "A referenced object does not exist")
	}

	logger.Log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(failed)
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", failed)
}

// bindBody decodes and validates a JSON request body. A non-nil return means
// the error response has already been written. A field holding a value of the
// wrong type is a validation error on that field; anything else that does not
// decode is INVALID_BODY.
func bindBody(c fiber.Ctx, dst any) (bool, error) {
	if err := c.App().Config().JSONDecoder(c.Body(), dst); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return false, middleware.ValidationErrorResponse(c, map[string]string{ute.Field: typeMessage(ute.Type)})
		}
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if fields := middleware.ValidateStruct(dst); fields != nil {
		return false, middleware.ValidationErrorResponse(c, fields)
	}
	return true, nil
}

func typeMessage(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "Incorrect type."
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.Slice:
		return "Expected a list of items."
	}
	return "Incorrect type."
}

// slugParam reads the :slug route parameter. A malformed slug cannot match
// any row, so it answers 404 like an unknown one.
func slugParam(c fiber.Ctx, notFound string) (string, bool, error) {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return "", false, middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", notFound)
	}
	return slug, true, nil
}

func idParam(c fiber.Ctx) (int64, bool, error) {
	id, errMsg := middleware.ValidateID(c.Params("id"))
	if errMsg != "" {
		return 0, false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}
	return id, true, nil
}

// ErrorHandler renders errors that escape the handlers (unknown routes,
// recovered panics, body limits) in the API error format.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		case fiber.StatusBadRequest:
			code = "INVALID_BODY"
		}
		return middleware.ErrorResponse(c, fe.Code, code, fe.Message)
	}

	logger.Log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
