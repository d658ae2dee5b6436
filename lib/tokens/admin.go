package tokens

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shitcoingarden/garden.go/common"
)

// AdminTokenMiddleware guards operator routes. Without a configured token
// the routes are closed.
func AdminTokenMiddleware(token string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + common.HeaderAdminToken,
		Validator: func(auth string, c echo.Context) (bool, error) {
			return token != "" && auth == token, nil
		},
	})
}
