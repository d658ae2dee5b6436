package tokens

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/responses"
)

type jwtCustomClaims struct {
	Address string `json:"address"`

	jwt.StandardClaims
}

// GenerateAccessToken signs a token naming address as the caller.
func GenerateAccessToken(secret []byte, expiryInSeconds int, address string) (string, error) {
	claims := &jwtCustomClaims{
		Address: address,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Second * time.Duration(expiryInSeconds)).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken returns the caller address of a valid token.
func ParseToken(secret []byte, token string) (string, error) {
	claims := &jwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Address == "" {
		return "", errors.New("invalid token")
	}
	return claims.Address, nil
}

func badAuth() error {
	return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
		"error":   true,
		"code":    responses.BadAuthError.Code,
		"message": responses.BadAuthError.Message,
	})
}

// Middleware authenticates the bearer token and stores the caller address
// under common.ContextKeyAddress. Tokens whose address claim addrs rejects
// are refused like any other bad token.
func Middleware(secret []byte, addrs garden.AddressValidator) echo.MiddlewareFunc {
	authenticate := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: secret,
		Claims:     &jwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)
			claims := token.Claims.(*jwtCustomClaims)
			c.Set(common.ContextKeyAddress, claims.Address)
		},
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			c.Logger().Debugf("Rejected token: %v", err)
			return badAuth()
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(func(c echo.Context) error {
			address, _ := c.Get(common.ContextKeyAddress).(string)
			if err := addrs.ValidateAddress(address); err != nil {
				c.Logger().Debugf("Rejected token address %q: %v", address, err)
				return badAuth()
			}
			return next(c)
		})
	}
}
