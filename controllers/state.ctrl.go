package controllers

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/lib/responses"
	"github.com/shitcoingarden/garden.go/lib/service"
)

const (
	DefaultScanLimit = 100
	MaxScanLimit     = 1000
)

// StateController exposes the raw ledger so mirrors can rebuild it.
type StateController struct {
	svc *service.GardenService
}

func NewStateController(svc *service.GardenService) *StateController {
	return &StateController{svc: svc}
}

type RawResponseBody struct {
	Value  string `json:"value"`
	Exists bool   `json:"exists"`
}

type ClockResponseBody struct {
	Now uint64 `json:"now"`
}

// Scan godoc
// @Summary      Scan ledger cells
// @Description  Returns cells in key order starting at key. Keys and values are hex encoded.
// @Produce      json
// @Tags         State
// @Param        key    query     string  false  "Hex encoded start key"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  ledger.Page
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /v1/state [get]
func (controller *StateController) Scan(c echo.Context) error {
	start, err := hex.DecodeString(c.QueryParam("key"))
	if err != nil {
		c.Logger().Errorf("Invalid start key: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	limit := DefaultScanLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
	}
	if limit > MaxScanLimit {
		limit = MaxScanLimit
	}

	page, err := controller.svc.Scan(c.Request().Context(), start, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &page)
}

// Raw godoc
// @Summary      Read one ledger cell
// @Description  The value is hex encoded. exists is false when the cell is absent, and true for a stored empty value.
// @Produce      json
// @Tags         State
// @Param        key  query     string  true  "Hex encoded key"
// @Success      200  {object}  RawResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/state/raw [get]
func (controller *StateController) Raw(c echo.Context) error {
	key, err := hex.DecodeString(c.QueryParam("key"))
	if err != nil || len(key) == 0 {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	value, ok, err := controller.svc.Raw(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &RawResponseBody{Value: hex.EncodeToString(value), Exists: ok})
}

// Clock godoc
// @Summary      Ledger clock
// @Description  The block time the next operation will execute at
// @Produce      json
// @Tags         State
// @Success      200  {object}  ClockResponseBody
// @Router       /v1/clock [get]
func (controller *StateController) Clock(c echo.Context) error {
	return c.JSON(http.StatusOK, &ClockResponseBody{Now: controller.svc.Now()})
}

