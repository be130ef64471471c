package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// activeTokenMiddleware rejects revoked tokens. It must run after the JWT middleware.
func (api *authApi) activeTokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if api.isRevoked(claims) {
			return errTokenRevoked
		}
		return next(ctx)
	}
}
