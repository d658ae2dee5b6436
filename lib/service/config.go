package service

import (
	"github.com/shitcoingarden/garden.go/lib/garden"
)

type Config struct {
	DatabaseUri                   string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns              int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns          int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime       int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN                     string  `envconfig:"SENTRY_DSN"`
	DatadogAgentUrl               string  `envconfig:"DATADOG_AGENT_URL"`
	SentryTracesSampleRate        float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath                   string  `envconfig:"LOG_FILE_PATH"`
	LogLevel                      string  `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret                     []byte  `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenExpiry          int     `envconfig:"JWT_ACCESS_EXPIRY" default:"172800"` // in seconds, default 2 days
	AdminToken                    string  `envconfig:"ADMIN_TOKEN"`
	Host                          string  `envconfig:"HOST" default:"localhost:3000"`
	Port                          int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit              int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit               int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit                int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus              bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort                int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl                    string  `envconfig:"WEBHOOK_URL"`
	RabbitMQUri                   string  `envconfig:"RABBITMQ_URI"`
	RabbitMQGardenEventExchange   string  `envconfig:"RABBITMQ_GARDEN_EVENT_EXCHANGE" default:"garden_event"`
	RabbitMQGardenCommandExchange string  `envconfig:"RABBITMQ_GARDEN_COMMAND_EXCHANGE" default:"garden_command"`
	OutboxRelaySchedule           string  `envconfig:"OUTBOX_RELAY_SCHEDULE" default:"@every 5s"`
	OutboxRelayBatchSize          int     `envconfig:"OUTBOX_RELAY_BATCH_SIZE" default:"100"`
	ContractAddress               string  `envconfig:"CONTRACT_ADDRESS" required:"true"`
	AddressPrefix                 string  `envconfig:"ADDRESS_PREFIX" default:"neutron"`
	// written to the ledger on first start only
	Garden garden.Params `envconfig:"GARDEN"`
}
