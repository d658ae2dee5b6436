package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/db/models"
	"github.com/shitcoingarden/garden.go/lib/responses"
	"github.com/shitcoingarden/garden.go/lib/service"
)

const (
	DefaultEventsLimit = 50
	MaxEventsLimit     = 500
)

type EventsController struct {
	svc *service.GardenService
}

func NewEventsController(svc *service.GardenService) *EventsController {
	return &EventsController{svc: svc}
}

// Events godoc
// @Summary      Event log
// @Description  Lists committed events after the given id, oldest first
// @Produce      json
// @Tags         Events
// @Param        after  query     int  false  "Return events with a greater id"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {array}   models.GardenEvent
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /v1/events [get]
func (controller *EventsController) Events(c echo.Context) error {
	var after int64
	var err error
	if raw := c.QueryParam("after"); raw != "" {
		after, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || after < 0 {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
	}
	limit := DefaultEventsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
	}
	if limit > MaxEventsLimit {
		limit = MaxEventsLimit
	}

	events, err := controller.svc.Events(c.Request().Context(), after, limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []models.GardenEvent{}
	}
	return c.JSON(http.StatusOK, &events)
}
