package integration_tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/responses"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type GardenTestSuite struct {
	TestSuite
	service      *service.GardenService
	clock        *service.ManualClock
	creator      string
	alice        string
	bob          string
	creatorToken string
	aliceToken   string
	bobToken     string
	denom        string
}

func (suite *GardenTestSuite) SetupTest() {
	suite.clock = service.NewManualClock(testStart)
	svc, err := GardenTestServiceInit(suite.clock, nil)
	suite.Require().NoError(err)
	suite.service = svc
	suite.echo = newGardenEcho(svc)

	suite.creator, suite.alice, suite.bob = testAddress(1), testAddress(2), testAddress(3)
	suite.creatorToken = suite.token(svc.Config.JWTSecret, suite.creator)
	suite.aliceToken = suite.token(svc.Config.JWTSecret, suite.alice)
	suite.bobToken = suite.token(svc.Config.JWTSecret, suite.bob)
	suite.denom = garden.Denom(svc.Config.ContractAddress, "PEPE")
}

func (suite *GardenTestSuite) createPepe() *ExpectedExecuteResponseBody {
	return suite.executeOK(suite.creatorToken, garden.ExecuteMsg{CreateShitcoin: &garden.CreateShitcoinMsg{
		Ticker: "PEPE", Name: "Pepe", Supply: garden.NewAmount(1_000),
	}}, untrn(1_000_000))
}

func (suite *GardenTestSuite) TestExecuteRequiresToken() {
	rec := suite.do(http.MethodPost, "/v1/execute", &ExpectedExecuteRequestBody{}, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *GardenTestSuite) TestExecuteRejectsTokenWithoutValidAddress() {
	secret := suite.service.Config.JWTSecret
	for _, address := range []string{"", "not-an-address:x"} {
		rec := suite.execute(suite.token(secret, address), garden.ExecuteMsg{EnterPresale: &garden.DenomMsg{Denom: suite.denom}}, untrn(1_000_000))
		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code, address)
	}
	events, err := suite.service.Events(context.Background(), 0, 10)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), events)
}

func (suite *GardenTestSuite) TestExecuteRejectsAmbiguousMessage() {
	rec := suite.execute(suite.creatorToken, garden.ExecuteMsg{
		ExtendPresale:  &garden.DenomMsg{Denom: suite.denom},
		LaunchShitcoin: &garden.DenomMsg{Denom: suite.denom},
	})
	errResp := checkErrResponse(&suite.TestSuite, rec, http.StatusBadRequest)
	assert.Equal(suite.T(), responses.CodeValidation, errResp.Code)
}

func (suite *GardenTestSuite) TestFullLifecycle() {
	created := suite.createPepe()
	assert.Equal(suite.T(), garden.EventShitcoinCreated, created.Event.Kind)
	assert.Equal(suite.T(), suite.denom, created.Event.Denom)
	kinds := []garden.CommandKind{}
	for _, c := range created.Commands {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(suite.T(), []garden.CommandKind{
		garden.CommandMintDenom, garden.CommandSetMetadata, garden.CommandMint, garden.CommandCreatePool, garden.CommandTransfer,
	}, kinds)

	entered := suite.executeOK(suite.aliceToken, garden.ExecuteMsg{EnterPresale: &garden.DenomMsg{Denom: suite.denom}}, untrn(1_000_000))
	assert.Equal(suite.T(), suite.alice, entered.Event.Participant)
	assert.Len(suite.T(), entered.Commands, 2)
	suite.executeOK(suite.bobToken, garden.ExecuteMsg{EnterPresale: &garden.DenomMsg{Denom: suite.denom}}, untrn(3_000_000))

	// launching early fails and leaves nothing behind
	rec := suite.execute(suite.creatorToken, garden.ExecuteMsg{LaunchShitcoin: &garden.DenomMsg{Denom: suite.denom}})
	errResp := checkErrResponse(&suite.TestSuite, rec, http.StatusConflict)
	assert.Equal(suite.T(), garden.ErrNotOverYet.Error(), errResp.Message)

	suite.clock.Advance(presaleLength)
	rec = suite.execute(suite.bobToken, garden.ExecuteMsg{EnterPresale: &garden.DenomMsg{Denom: suite.denom}}, untrn(1_000_000))
	errResp = checkErrResponse(&suite.TestSuite, rec, http.StatusConflict)
	assert.Equal(suite.T(), garden.ErrTooLate.Error(), errResp.Message)

	launched := suite.executeOK(suite.bobToken, garden.ExecuteMsg{LaunchShitcoin: &garden.DenomMsg{Denom: suite.denom}})
	assert.Equal(suite.T(), garden.EventShitcoinLaunched, launched.Event.Kind)
	assert.Len(suite.T(), launched.Commands, 1)
	assert.Equal(suite.T(), garden.CommandProvideLiquidity, launched.Commands[0].Kind)

	claimed := suite.executeOK(suite.aliceToken, garden.ExecuteMsg{ClaimShitcoin: &garden.DenomMsg{Denom: suite.denom}})
	cmd, err := claimed.Commands[0].Unwrap()
	suite.Require().NoError(err)
	transfer := cmd.(garden.Transfer)
	// half of 1e9 split 995000 : 2985000
	assert.Equal(suite.T(), "125000000", transfer.Coin.Amount.String())
	assert.Equal(suite.T(), suite.alice, transfer.Recipient)

	rec = suite.execute(suite.aliceToken, garden.ExecuteMsg{ClaimShitcoin: &garden.DenomMsg{Denom: suite.denom}})
	errResp = checkErrResponse(&suite.TestSuite, rec, http.StatusConflict)
	assert.Equal(suite.T(), garden.ErrAlreadyClaimed.Error(), errResp.Message)

	rec = suite.execute(suite.creatorToken, garden.ExecuteMsg{ClaimShitcoin: &garden.DenomMsg{Denom: suite.denom}})
	errResp = checkErrResponse(&suite.TestSuite, rec, http.StatusBadRequest)
	assert.Equal(suite.T(), garden.ErrDidNotEnter.Error(), errResp.Message)

	var degen garden.DegenMetadata
	suite.getJSON(fmt.Sprintf("/v1/shitcoins/PEPE/degens/%s", suite.alice), &degen)
	assert.Equal(suite.T(), "995000", degen.PresaleSubmission.String())
	assert.True(suite.T(), degen.ShitcoinsClaimed)

	var meta garden.ShitcoinMetadata
	suite.getJSON("/v1/shitcoins/PEPE", &meta)
	assert.Equal(suite.T(), "3980000", meta.PresaleRaise.String())
	assert.Equal(suite.T(), "1000000000", meta.Supply.String())
	assert.True(suite.T(), meta.Ended)
	assert.True(suite.T(), meta.Launched)

	events, err := suite.service.Events(context.Background(), 0, 10)
	suite.Require().NoError(err)
	assert.Len(suite.T(), events, 5)
}

func (suite *GardenTestSuite) TestSetURLOnlyByCreator() {
	suite.createPepe()
	rec := suite.execute(suite.aliceToken, garden.ExecuteMsg{SetURL: &garden.SetURLMsg{Denom: suite.denom, URL: "https://pepe.example"}})
	errResp := checkErrResponse(&suite.TestSuite, rec, http.StatusConflict)
	assert.Equal(suite.T(), responses.CodePrecondition, errResp.Code)
	assert.Equal(suite.T(), garden.ErrNotCreator.Error(), errResp.Message)

	res := suite.executeOK(suite.creatorToken, garden.ExecuteMsg{SetURL: &garden.SetURLMsg{Denom: suite.denom, URL: "https://pepe.example"}})
	assert.Equal(suite.T(), garden.EventShitcoinURLSet, res.Event.Kind)
	var meta garden.ShitcoinMetadata
	suite.getJSON("/v1/shitcoins/PEPE", &meta)
	assert.Equal(suite.T(), "https://pepe.example", meta.URL)
}

func (suite *GardenTestSuite) TestQueries() {
	suite.createPepe()
	suite.executeOK(suite.creatorToken, garden.ExecuteMsg{CreateShitcoin: &garden.CreateShitcoinMsg{
		Ticker: "WOJAK", Name: "Wojak", Supply: garden.NewAmount(10),
	}}, untrn(1_000_000))

	var params garden.Params
	suite.getJSON("/v1/config", &params)
	assert.Equal(suite.T(), testParams(), params)

	var page garden.ShitcoinPage
	suite.getJSON("/v1/shitcoins?page=0&limit=1", &page)
	assert.Equal(suite.T(), uint64(2), page.Total)
	assert.Len(suite.T(), page.Shitcoins, 1)
	assert.Equal(suite.T(), "PEPE", page.Shitcoins[0].Ticker)

	suite.getJSON("/v1/shitcoins?page=5", &page)
	assert.Empty(suite.T(), page.Shitcoins)

	rec := suite.do(http.MethodGet, "/v1/shitcoins?limit=abc", nil, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodGet, "/v1/shitcoins/NOPE", nil, nil)
	errResp := checkErrResponse(&suite.TestSuite, rec, http.StatusNotFound)
	assert.Equal(suite.T(), responses.CodeNotFound, errResp.Code)

	var degen garden.DegenMetadata
	suite.getJSON(fmt.Sprintf("/v1/shitcoins/WOJAK/degens/%s", suite.bob), &degen)
	assert.True(suite.T(), degen.PresaleSubmission.IsZero())
	assert.False(suite.T(), degen.ShitcoinsClaimed)

	var viaQuery garden.ShitcoinMetadata
	rec = suite.do(http.MethodPost, "/v1/query", &garden.QueryMsg{ShitcoinMetadata: &garden.DenomMsg{Denom: suite.denom}}, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	suite.Require().NoError(decodeBody(rec.Body, &viaQuery))
	assert.Equal(suite.T(), "Pepe", viaQuery.Name)
}

func (suite *GardenTestSuite) TestStateEndpoints() {
	suite.createPepe()

	var page struct {
		Models []struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"models"`
		NextKey string `json:"next_key"`
	}
	suite.getJSON("/v1/state?limit=2", &page)
	assert.Len(suite.T(), page.Models, 2)
	assert.NotEmpty(suite.T(), page.NextKey)

	var raw struct {
		Value  string `json:"value"`
		Exists bool   `json:"exists"`
	}
	suite.getJSON("/v1/state/raw?key="+page.Models[0].Key, &raw)
	assert.Equal(suite.T(), page.Models[0].Value, raw.Value)
	assert.True(suite.T(), raw.Exists)

	raw.Exists = true
	suite.getJSON("/v1/state/raw?key=00ff", &raw)
	assert.Empty(suite.T(), raw.Value)
	assert.False(suite.T(), raw.Exists)

	rec := suite.do(http.MethodGet, "/v1/state?key=zz", nil, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	var clock struct {
		Now uint64 `json:"now"`
	}
	suite.getJSON("/v1/clock", &clock)
	assert.Equal(suite.T(), testStart, clock.Now)

	var events []map[string]interface{}
	suite.getJSON("/v1/events?after=0", &events)
	assert.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), string(garden.EventShitcoinCreated), events[0]["kind"])
}

func (suite *GardenTestSuite) TestEventsArePublished() {
	events := make(chan garden.Event, 10)
	subId, err := suite.service.EventPubSub.Subscribe(common.TopicAllEvents, events)
	suite.Require().NoError(err)
	defer suite.service.EventPubSub.Unsubscribe(subId, common.TopicAllEvents)

	suite.createPepe()
	event := <-events
	assert.Equal(suite.T(), garden.EventShitcoinCreated, event.Kind)

	// rejected operations publish nothing
	suite.execute(suite.creatorToken, garden.ExecuteMsg{LaunchShitcoin: &garden.DenomMsg{Denom: suite.denom}})
	assert.Empty(suite.T(), events)
}

func (suite *GardenTestSuite) TestAdminRoutes() {
	rec := suite.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, "/admin/outbox/relay", nil, map[string]string{common.HeaderAdminToken: "wrong"})
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	rec = suite.do(http.MethodPost, "/admin/outbox/relay", nil, map[string]string{echo.HeaderAuthorization: "Bearer " + suite.creatorToken})
	assert.NotEqual(suite.T(), http.StatusOK, rec.Code)
}

func TestGardenSuite(t *testing.T) {
	suite.Run(t, new(GardenTestSuite))
}
