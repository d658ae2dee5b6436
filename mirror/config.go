package mirror

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LedgerURL                   string        `envconfig:"LEDGER_URL"`          // host base url, e.g. http://localhost:3000
	LedgerDatabaseUri           string        `envconfig:"LEDGER_DATABASE_URI"` // read replica of the host database
	LedgerDatabaseMaxConns      int           `envconfig:"LEDGER_DATABASE_MAX_CONNS" default:"5"`
	ContractAddress             string        `envconfig:"CONTRACT_ADDRESS" required:"true"`
	RabbitMQUri                 string        `envconfig:"RABBITMQ_URI"`
	RabbitMQGardenEventExchange string        `envconfig:"RABBITMQ_GARDEN_EVENT_EXCHANGE" default:"garden_event"`
	MirrorQueueName             string        `envconfig:"MIRROR_QUEUE_NAME"`
	BroadcastCapacity           int           `envconfig:"BROADCAST_CAPACITY" default:"20"`
	KeepaliveInterval           time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"600s"`
	ScanPageLimit               int           `envconfig:"SCAN_PAGE_LIMIT" default:"100"`
	Host                        string        `envconfig:"HOST" default:"localhost:3001"`
	Port                        int           `envconfig:"PORT" default:"3001"`
	DefaultRateLimit            int           `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	BurstRateLimit              int           `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus            bool          `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort              int           `envconfig:"PROMETHEUS_PORT" default:"9093"`
	LogFilePath                 string        `envconfig:"LOG_FILE_PATH"`
	LogLevel                    string        `envconfig:"LOG_LEVEL" default:"info"`
	SentryDSN                   string        `envconfig:"SENTRY_DSN"`
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if (c.LedgerURL == "") == (c.LedgerDatabaseUri == "") {
		return errors.New("exactly one of LEDGER_URL and LEDGER_DATABASE_URI must be set")
	}
	if c.RabbitMQUri == "" {
		return errors.New("RABBITMQ_URI must be set to follow the event feed")
	}
	if c.BroadcastCapacity <= 0 {
		return errors.New("BROADCAST_CAPACITY must be positive")
	}
	if c.ScanPageLimit <= 0 {
		return errors.New("SCAN_PAGE_LIMIT must be positive")
	}
	return nil
}
