package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/lib/service"
)

// AdminController : operator endpoints, guarded by the admin token
type AdminController struct {
	svc *service.GardenService
}

func NewAdminController(svc *service.GardenService) *AdminController {
	return &AdminController{svc: svc}
}

type RelayResponseBody struct {
	Published int `json:"published"`
}

// RelayOutbox godoc
// @Summary      Relay the command outbox now
// @Description  Publishes pending commands without waiting for the schedule
// @Produce      json
// @Tags         Admin
// @Success      200  {object}  RelayResponseBody
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /admin/outbox/relay [post]
func (controller *AdminController) RelayOutbox(c echo.Context) error {
	n, err := controller.svc.RelayOutbox(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Manual outbox relay failed after %d commands: %v", n, err)
		return err
	}
	return c.JSON(http.StatusOK, &RelayResponseBody{Published: n})
}

type HealthResponseBody struct {
	Status string `json:"status"`
	Now    uint64 `json:"now"`
}

// Health godoc
// @Summary      Liveness
// @Produce      json
// @Tags         Admin
// @Success      200  {object}  HealthResponseBody
// @Router       /health [get]
func (controller *AdminController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponseBody{Status: "ok", Now: controller.svc.Now()})
}
