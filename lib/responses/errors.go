package responses

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "not found",
	HttpStatusCode: 404,
}

var UnavailableError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "Service unavailable",
	HttpStatusCode: 503,
}

// Garden error codes, one per kind.
const (
	CodeValidation   = 2
	CodeNotFound     = 3
	CodePrecondition = 4
)

// GardenErrorResponse maps a rejected garden operation to its response.
// ok is false for errors that are not garden errors.
func GardenErrorResponse(err error) (resp ErrorResponse, ok bool) {
	var gerr *garden.Error
	if !errors.As(err, &gerr) {
		return ErrorResponse{}, false
	}
	resp = ErrorResponse{Error: true, Message: gerr.Error()}
	switch gerr.Kind {
	case garden.KindValidation:
		resp.Code, resp.HttpStatusCode = CodeValidation, http.StatusBadRequest
	case garden.KindPrecondition:
		resp.Code, resp.HttpStatusCode = CodePrecondition, http.StatusConflict
	case garden.KindNotFound:
		resp.Code, resp.HttpStatusCode = CodeNotFound, http.StatusNotFound
	default:
		return ErrorResponse{}, false
	}
	return resp, true
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if resp, ok := GardenErrorResponse(err); ok {
		c.Logger().Infof("Rejected: %v", err)
		c.JSON(resp.HttpStatusCode, resp)
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra(common.ContextKeyAddress, c.Get(common.ContextKeyAddress))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}

// isErrAllowedForSentry drops errors caused by the caller.
func isErrAllowedForSentry(err error) bool {
	if garden.KindOf(err) != 0 {
		return false
	}
	if he, ok := err.(*echo.HTTPError); ok {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			return false
		}
		if m, ok := he.Message.(echo.Map); ok && m["code"] == BadAuthError.Code {
			return false
		}
	}
	return true
}
