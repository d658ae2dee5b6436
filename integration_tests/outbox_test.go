package integration_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/shitcoingarden/garden.go/rabbitmq"
	"github.com/shitcoingarden/garden.go/rabbitmq/mock_rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OutboxTestSuite struct {
	TestSuite
	ctrl    *gomock.Controller
	amqp    *mock_rabbitmq.MockAMQPClient
	service *service.GardenService
}

func (suite *OutboxTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.amqp = mock_rabbitmq.NewMockAMQPClient(suite.ctrl)
	client, err := rabbitmq.NewClient(suite.amqp, rabbitmq.WithGardenCommandExchange("test_garden_command"))
	suite.Require().NoError(err)

	svc, err := GardenTestServiceInit(service.NewManualClock(testStart), client)
	suite.Require().NoError(err)
	suite.service = svc
	suite.echo = newGardenEcho(svc)
}

func (suite *OutboxTestSuite) TestRelayPublishesInCommitOrder() {
	token := suite.token(suite.service.Config.JWTSecret, testAddress(1))
	suite.executeOK(token, garden.ExecuteMsg{CreateShitcoin: &garden.CreateShitcoinMsg{
		Ticker: "PEPE", Name: "Pepe", Supply: garden.NewAmount(1_000),
	}}, untrn(1_000_000))

	suite.amqp.EXPECT().
		ExchangeDeclare("test_garden_command", "topic", true, false, false, false, gomock.Any()).
		Return(nil)
	routingKeys := []string{}
	suite.amqp.EXPECT().
		PublishWithContext(gomock.Any(), "test_garden_command", gomock.Any(), false, false, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, key string, _ bool, _ bool, msg amqp.Publishing) error {
			routingKeys = append(routingKeys, key)
			assert.True(suite.T(), json.Valid(msg.Body))
			return nil
		}).
		Times(5)

	rec := suite.do(http.MethodPost, "/admin/outbox/relay", nil, map[string]string{common.HeaderAdminToken: testAdminToken})
	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Published int `json:"published"`
	}
	suite.Require().NoError(decodeBody(rec.Body, &body))
	assert.Equal(suite.T(), 5, body.Published)
	assert.Equal(suite.T(), []string{
		common.CommandRoutingKeyPrefix + string(garden.CommandMintDenom),
		common.CommandRoutingKeyPrefix + string(garden.CommandSetMetadata),
		common.CommandRoutingKeyPrefix + string(garden.CommandMint),
		common.CommandRoutingKeyPrefix + string(garden.CommandCreatePool),
		common.CommandRoutingKeyPrefix + string(garden.CommandTransfer),
	}, routingKeys)

	// nothing is left to relay
	rec = suite.do(http.MethodPost, "/admin/outbox/relay", nil, map[string]string{common.HeaderAdminToken: testAdminToken})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	suite.Require().NoError(decodeBody(rec.Body, &body))
	assert.Equal(suite.T(), 0, body.Published)
}

func TestOutboxSuite(t *testing.T) {
	suite.Run(t, new(OutboxTestSuite))
}
