package transport

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/controllers"
	"github.com/shitcoingarden/garden.go/fanout"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/shitcoingarden/garden.go/mirror"
)

// RegisterGardenEndpoints mounts the host API on e.
func RegisterGardenEndpoints(svc *service.GardenService, e *echo.Echo, secured *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	cacheClient := CreateCacheClient(10 * time.Minute)

	gardenCtrl := controllers.NewGardenController(svc)
	stateCtrl := controllers.NewStateController(svc)
	adminCtrl := controllers.NewAdminController(svc)

	secured.POST("/v1/execute", gardenCtrl.Execute, strictRateLimitMiddleware)

	e.POST("/v1/query", gardenCtrl.Query, logMw)
	// the configuration never changes after instantiation
	e.GET("/v1/config", gardenCtrl.Config, cacheClient.Middleware())
	e.GET("/v1/shitcoins", gardenCtrl.Shitcoins)
	e.GET("/v1/shitcoins/:ticker", gardenCtrl.Shitcoin)
	e.GET("/v1/shitcoins/:ticker/degens/:address", gardenCtrl.Degen)

	e.GET("/v1/state", stateCtrl.Scan)
	e.GET("/v1/state/raw", stateCtrl.Raw)
	e.GET("/v1/clock", stateCtrl.Clock)
	e.GET("/v1/events", controllers.NewEventsController(svc).Events)

	e.POST("/admin/outbox/relay", adminCtrl.RelayOutbox, adminMw, logMw)
	e.GET("/health", adminCtrl.Health)
}

// RegisterMirrorEndpoints mounts the mirror views and update streams on e.
func RegisterMirrorEndpoints(c *mirror.Config, engine *mirror.Engine, b *fanout.Broadcaster, e *echo.Echo) {
	mirrorCtrl := controllers.NewMirrorController(engine.Mirror, engine, c.ContractAddress)
	streamCtrl := controllers.NewStreamController(engine.Mirror, b, c.KeepaliveInterval, engine.Logger)

	e.GET("/dump", mirrorCtrl.Dump)
	e.GET("/presales", mirrorCtrl.Presales)
	e.GET("/presales/:degen", mirrorCtrl.Presales)
	e.GET("/presale/:ticker", mirrorCtrl.Presale)
	e.GET("/presale/:ticker/:degen", mirrorCtrl.Presale)

	e.GET("/sse", streamCtrl.SSE)
	e.GET("/sse/:degen", streamCtrl.SSE)
	e.GET("/ws", streamCtrl.Websocket)
	e.GET("/ws/:degen", streamCtrl.Websocket)
}
