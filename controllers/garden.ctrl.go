package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/responses"
	"github.com/shitcoingarden/garden.go/lib/service"
)

// GardenController serves the operations and queries of the garden.
type GardenController struct {
	svc *service.GardenService
}

func NewGardenController(svc *service.GardenService) *GardenController {
	return &GardenController{svc: svc}
}

type ExecuteRequestBody struct {
	garden.ExecuteMsg
	Funds []garden.Coin `json:"funds" validate:"dive"`
}

type ExecuteResponseBody struct {
	Commands []garden.Envelope `json:"commands"`
	Event    garden.Event      `json:"event"`
}

// Execute godoc
// @Summary      Execute a garden operation
// @Description  Runs exactly one operation as the authenticated caller. Funds are the coins sent along.
// @Accept       json
// @Produce      json
// @Tags         Garden
// @Param        operation  body      ExecuteRequestBody  True  "Operation"
// @Success      200        {object}  ExecuteResponseBody
// @Failure      400        {object}  responses.ErrorResponse
// @Failure      404        {object}  responses.ErrorResponse
// @Failure      409        {object}  responses.ErrorResponse
// @Failure      500        {object}  responses.ErrorResponse
// @Router       /v1/execute [post]
// @Security     BearerAuth
func (controller *GardenController) Execute(c echo.Context) error {
	sender := c.Get(common.ContextKeyAddress).(string)
	var body ExecuteRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load execute request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid execute request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	res, err := controller.svc.Execute(c.Request().Context(), garden.Caller{Sender: sender, Funds: body.Funds}, body.ExecuteMsg)
	if err != nil {
		return err
	}
	commands, err := garden.WrapAll(res.Commands)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &ExecuteResponseBody{Commands: commands, Event: res.Event})
}

// Query godoc
// @Summary      Run a garden query
// @Description  Runs exactly one of config, shitcoin_metadata, shitcoins or degen_metadata
// @Accept       json
// @Produce      json
// @Tags         Garden
// @Param        query  body      garden.QueryMsg  True  "Query"
// @Success      200    {object}  interface{}
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      404    {object}  responses.ErrorResponse
// @Router       /v1/query [post]
func (controller *GardenController) Query(c echo.Context) error {
	var body garden.QueryMsg
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load query request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid query request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.Query(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Config godoc
// @Summary      Garden configuration
// @Description  The configuration written at instantiation. It never changes.
// @Produce      json
// @Tags         Garden
// @Success      200  {object}  garden.Params
// @Router       /v1/config [get]
func (controller *GardenController) Config(c echo.Context) error {
	params, err := controller.svc.GardenConfig(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &params)
}

// Shitcoins godoc
// @Summary      List shitcoins
// @Description  Lists shitcoins in creation order, one page at a time
// @Produce      json
// @Tags         Garden
// @Param        page   query     int  false  "Page, starting at 0"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  garden.ShitcoinPage
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /v1/shitcoins [get]
func (controller *GardenController) Shitcoins(c echo.Context) error {
	page, err := optionalUint(c, "page")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	limit, err := optionalUint(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	result, err := controller.svc.Shitcoins(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &result)
}

// Shitcoin godoc
// @Summary      Shitcoin metadata
// @Produce      json
// @Tags         Garden
// @Param        ticker  path      string  true  "Ticker"
// @Success      200     {object}  garden.ShitcoinMetadata
// @Failure      404     {object}  responses.ErrorResponse
// @Router       /v1/shitcoins/{ticker} [get]
func (controller *GardenController) Shitcoin(c echo.Context) error {
	denom := controller.svc.Denom(c.Param("ticker"))
	result, err := controller.svc.ShitcoinMetadata(c.Request().Context(), denom)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &result)
}

// Degen godoc
// @Summary      A degen's presale entry
// @Produce      json
// @Tags         Garden
// @Param        ticker   path      string  true  "Ticker"
// @Param        address  path      string  true  "Degen address"
// @Success      200      {object}  garden.DegenMetadata
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/shitcoins/{ticker}/degens/{address} [get]
func (controller *GardenController) Degen(c echo.Context) error {
	denom := controller.svc.Denom(c.Param("ticker"))
	result, err := controller.svc.DegenMetadata(c.Request().Context(), denom, c.Param("address"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &result)
}

func optionalUint(c echo.Context, name string) (*uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.Logger().Debugf("Could not parse %s=%q: %v", name, raw, err)
		return nil, err
	}
	return &v, nil
}
