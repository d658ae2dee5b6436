package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/db"
	"github.com/shitcoingarden/garden.go/db/migrations"
	"github.com/shitcoingarden/garden.go/lib"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/responses"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/shitcoingarden/garden.go/lib/tokens"
	"github.com/shitcoingarden/garden.go/lib/transport"
	"github.com/shitcoingarden/garden.go/rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/ziflex/lecho/v3"
)

const (
	testStart      = uint64(1_700_000_000)
	testAdminToken = "admin-token"
	presaleLength  = uint64(3600)
)

func testAddress(b byte) string {
	addr, err := garden.EncodeAddress(garden.DefaultAddressPrefix, bytes.Repeat([]byte{b}, 20))
	if err != nil {
		panic(err)
	}
	return addr
}

func testParams() garden.Params {
	return garden.Params{
		PoolFactoryAddress: testAddress(10),
		FeeRecipient:       testAddress(11),
		CreateFeeDenom:     "untrn",
		CreateFee:          garden.NewAmount(1_000_000),
		PresaleDenom:       "untrn",
		PresaleLength:      presaleLength,
		PresaleFeeRate:     50,
	}
}

// GardenTestServiceInit runs the host on the in-memory ledger, or on
// Postgres when DATABASE_URI is set.
func GardenTestServiceInit(clock service.Clock, rabbitmqClient rabbitmq.Client) (svc *service.GardenService, err error) {
	c := &service.Config{
		DatabaseUri:             db.MemoryDSN,
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		JWTSecret:               []byte("SECRET"),
		JWTAccessTokenExpiry:    3600,
		AdminToken:              testAdminToken,
		StrictRateLimit:         1000,
		BurstRateLimit:          1000,
		OutboxRelayBatchSize:    100,
		ContractAddress:         testAddress(20),
		AddressPrefix:           garden.DefaultAddressPrefix,
	}

	var backend service.Backend = service.NewMemoryBackend()
	if dbUri, ok := os.LookupEnv("DATABASE_URI"); ok {
		c.DatabaseUri = dbUri
		dbConn, err := db.Open(c)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		ctx := context.Background()
		if _, err = migrations.Apply(ctx, dbConn); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		if _, err = dbConn.ExecContext(ctx, "TRUNCATE ledger_cells, outbox_commands, garden_events, pools RESTART IDENTITY"); err != nil {
			return nil, fmt.Errorf("failed to clear tables: %w", err)
		}
		backend = db.NewLedgerBackend(dbConn)
	}

	svc = &service.GardenService{
		Config:         c,
		Backend:        backend,
		Clock:          clock,
		Addrs:          garden.Bech32Validator{Prefix: c.AddressPrefix},
		Logger:         lecho.New(io.Discard),
		EventPubSub:    service.NewPubsub(),
		RabbitMQClient: rabbitmqClient,
	}
	if err = svc.Instantiate(context.Background(), testParams()); err != nil {
		return nil, err
	}
	return svc, nil
}

// newGardenEcho serves the host routes the way the server binary does.
func newGardenEcho(svc *service.GardenService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = lib.NewCustomValidator()
	e.Logger = svc.Logger
	logMw := transport.CreateLoggingMiddleware(svc.Logger)
	secured := e.Group("", tokens.Middleware(svc.Config.JWTSecret, svc.Addrs), logMw)
	strict := transport.CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)
	transport.RegisterGardenEndpoints(svc, e, secured, strict, tokens.AdminTokenMiddleware(svc.Config.AdminToken), logMw)
	return e
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (suite *TestSuite) token(secret []byte, address string) string {
	token, err := tokens.GenerateAccessToken(secret, 3600, address)
	suite.Require().NoError(err)
	return token
}

func (suite *TestSuite) do(method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *TestSuite) getJSON(path string, out interface{}) {
	rec := suite.do(http.MethodGet, path, nil, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(out))
}

type ExpectedExecuteRequestBody struct {
	garden.ExecuteMsg
	Funds []garden.Coin `json:"funds"`
}

type ExpectedExecuteResponseBody struct {
	Commands []garden.Envelope `json:"commands"`
	Event    garden.Event      `json:"event"`
}

func (suite *TestSuite) execute(token string, msg garden.ExecuteMsg, funds ...garden.Coin) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/v1/execute", &ExpectedExecuteRequestBody{ExecuteMsg: msg, Funds: funds},
		map[string]string{echo.HeaderAuthorization: "Bearer " + token})
}

func (suite *TestSuite) executeOK(token string, msg garden.ExecuteMsg, funds ...garden.Coin) *ExpectedExecuteResponseBody {
	rec := suite.execute(token, msg, funds...)
	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	body := &ExpectedExecuteResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(body))
	return body
}

func checkErrResponse(suite *TestSuite, rec *httptest.ResponseRecorder, status int) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	assert.Equal(suite.T(), status, rec.Code, rec.Body.String())
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	return errorResponse
}

func untrn(amount uint64) garden.Coin {
	return garden.NewCoin("untrn", garden.NewAmount(amount))
}

func decodeBody(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}
