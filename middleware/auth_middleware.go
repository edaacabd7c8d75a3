package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/models"
)

const (
	tokenKey   = "token"
	accountKey = "account"
)

// Protected rejects requests without a valid bearer token for an active account.
func Protected(authorizer *auth.Authorizer) fiber.Handler {
	return jwtware.New(jwtConfig(authorizer, nil))
}

// OptionalAuth resolves the account when an Authorization header is present and lets anonymous requests through.
func OptionalAuth(authorizer *auth.Authorizer) fiber.Handler {
	return jwtware.New(jwtConfig(authorizer, func(c *fiber.Ctx) bool {
		return c.Get(fiber.HeaderAuthorization) == ""
	}))
}

func jwtConfig(authorizer *auth.Authorizer, filter func(*fiber.Ctx) bool) jwtware.Config {
	tokens := authorizer.Tokens()
	return jwtware.Config{
		Filter:       filter,
		KeyFunc:      tokens.KeyFunc,
		Claims:       &auth.Claims{},
		ContextKey:   tokenKey,
		AuthScheme:   "Bearer",
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenKey).(*jwt.Token)
			identity, err := auth.IdentityFromToken(token)
			if err != nil {
				return err
			}
			user, err := authorizer.Resolve(c.UserContext(), identity)
			if err != nil {
				return err
			}
			c.Locals(accountKey, user)
			return c.Next()
		},
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "missing or malformed JWT") {
		return apperror.Unauthenticated("not authenticated")
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperror.Unauthenticated("token has expired")
	}
	return apperror.Unauthenticated("could not validate credentials")
}

// CurrentUser returns the account resolved by Protected or OptionalAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(accountKey).(*models.User)
	return user
}

// AdminRequired must run after Protected.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(CurrentUser(c), auth.ActionAdminAccess, auth.RelationNone); err != nil {
			return err
		}
		return c.Next()
	}
}
