package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/code-gritt/maiden/internal/pkg/apperr"
)

// BaseResponse is the envelope every endpoint returns.
type BaseResponse[T any] struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// HandleError maps a service error to its HTTP status and envelope. Only the
// error's public message goes to the client, wrapped causes stay in the logs.
func HandleError(ctx *fiber.Ctx, err error) error {
	status := apperr.StatusCode(err)

	message := "Internal server error"
	var fields map[string]string

	var ae *apperr.Error
	if errors.As(err, &ae) {
		message = ae.Message
		fields = ae.Fields
	}

	res := ErrorResponse(status, message)
	res.Fields = fields

	return ctx.Status(status).JSON(res)
}

// ErrorHandlerMiddleware recovers from panics and converts unhandled fiber
// errors into the standard envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		return HandleError(ctx, err)
	}
}
