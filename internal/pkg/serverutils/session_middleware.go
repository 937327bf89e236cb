package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionCookieName = "session_token"

// SessionResolver looks up the user behind an opaque session token. Expired
// or unknown tokens resolve to an auth error.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// SessionMiddleware authenticates requests from the session cookie and puts
// the user id into the request locals.
func SessionMiddleware(resolver SessionResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(SessionCookieName)
		if token == "" {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(ErrorResponse(fiber.StatusUnauthorized, "Authentication required"))
		}

		userId, err := resolver.Resolve(ctx.UserContext(), token)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid or expired session"))
		}

		ctx.Locals("user_id", userId)
		ctx.Locals(SessionCookieName, token)

		return ctx.Next()
	}
}

// UserIdFromCtx extracts the authenticated user id stored by SessionMiddleware.
func UserIdFromCtx(ctx *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := ctx.Locals("user_id").(uuid.UUID)
	return id, ok
}
