package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/responses"
	"github.com/shitcoingarden/garden.go/mirror"
)

// BlockClock reports the latest block time the mirror knows of.
type BlockClock interface {
	Now(ctx context.Context) uint64
}

// MirrorController serves presale views from the mirror.
type MirrorController struct {
	mirror   *mirror.Mirror
	clock    BlockClock
	contract string
}

func NewMirrorController(m *mirror.Mirror, clock BlockClock, contract string) *MirrorController {
	return &MirrorController{mirror: m, clock: clock, contract: contract}
}

// Dump godoc
// @Summary      Mirror dump
// @Description  The whole mirrored state: creation indexes, shitcoins and degens
// @Produce      json
// @Tags         Mirror
// @Success      200  {object}  interface{}
// @Router       /dump [get]
func (controller *MirrorController) Dump(c echo.Context) error {
	body, err := controller.mirror.Dump()
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, body)
}

// Presales godoc
// @Summary      All presales
// @Description  Newest first. With a degen, each view carries that degen's entry.
// @Produce      json
// @Tags         Mirror
// @Param        degen  path      string  false  "Degen address"
// @Success      200    {array}   mirror.PresaleView
// @Router       /presales [get]
// @Router       /presales/{degen} [get]
func (controller *MirrorController) Presales(c echo.Context) error {
	now := controller.clock.Now(c.Request().Context())
	views := controller.mirror.Presales(now, c.Param("degen"))
	if views == nil {
		views = []mirror.PresaleView{}
	}
	return c.JSON(http.StatusOK, &views)
}

// Presale godoc
// @Summary      One presale
// @Produce      json
// @Tags         Mirror
// @Param        ticker  path      string  true   "Ticker"
// @Param        degen   path      string  false  "Degen address"
// @Success      200     {object}  mirror.PresaleView
// @Failure      404     {object}  responses.ErrorResponse
// @Router       /presale/{ticker} [get]
// @Router       /presale/{ticker}/{degen} [get]
func (controller *MirrorController) Presale(c echo.Context) error {
	denom := garden.Denom(controller.contract, c.Param("ticker"))
	now := controller.clock.Now(c.Request().Context())
	view, ok := controller.mirror.Presale(denom, now, c.Param("degen"))
	if !ok {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, &view)
}
