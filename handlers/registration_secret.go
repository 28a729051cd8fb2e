package handlers

import (
	"crypto/subtle"

	"mygrid/helpers"
	"mygrid/service"

	"github.com/labstack/echo/v4"
)

// RegistrationSecret returns middleware requiring the X-Registration-Secret header to equal secret.
// An empty secret disables the check.
func RegistrationSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(ectx echo.Context) error {
			got, ok := helpers.GetHeaderValue(ectx.Request().Header, helpers.HeaderRegistrationSecret)
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return service.NewUnauthorizedError("missing or wrong " + helpers.HeaderRegistrationSecret + " header")
			}
			return next(ectx)
		}
	}
}
