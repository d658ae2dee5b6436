package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/shitcoingarden/garden.go/db"
	"github.com/shitcoingarden/garden.go/fanout"
	"github.com/shitcoingarden/garden.go/lib/logging"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/shitcoingarden/garden.go/lib/transport"
	"github.com/shitcoingarden/garden.go/mirror"
	"github.com/shitcoingarden/garden.go/rabbitmq"
)

func main() {
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	c, err := mirror.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading mirror config: %v", err)
	}

	logger := logging.Logger(c.LogFilePath, c.LogLevel)

	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:          c.SentryDSN,
			IgnoreErrors: []string{"401"},
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	var source mirror.Source
	if c.LedgerURL != "" {
		source = mirror.NewHTTPSource(c.LedgerURL)
		logger.Infof("Mirroring the ledger at %s", c.LedgerURL)
	} else {
		dbConn, err := db.OpenDSN(c.LedgerDatabaseUri, false, c.LedgerDatabaseMaxConns, c.LedgerDatabaseMaxConns, 1800)
		if err != nil {
			logger.Fatalf("Error initializing db connection: %v", err)
		}
		source = &mirror.LedgerSource{Ledger: db.NewLedgerBackend(dbConn), Clock: service.SystemClock{}}
		logger.Info("Mirroring the ledger from its database")
	}

	amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer amqpClient.Close()
	rabbitmqClient, err := rabbitmq.NewClient(amqpClient,
		rabbitmq.WithLogger(logger),
		rabbitmq.WithGardenEventExchange(c.RabbitMQGardenEventExchange),
		rabbitmq.WithEventQueueName(c.MirrorQueueName),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer rabbitmqClient.Close()

	broadcaster := fanout.NewBroadcaster(c.BroadcastCapacity)
	engine := &mirror.Engine{
		Mirror:    mirror.NewMirror(),
		Source:    source,
		Feed:      &mirror.RabbitFeed{Client: rabbitmqClient},
		Publisher: broadcaster,
		Logger:    logger,
		PageLimit: c.ScanPageLimit,
	}

	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)
	// serve nothing until the first full load succeeded
	if err = engine.Bootstrap(backGroundCtx); err != nil {
		logger.Fatalf("Error bootstrapping the mirror: %v", err)
	}

	e := transport.InitEcho(c.DefaultRateLimit, c.SentryDSN, logger)
	e.Use(transport.CreateLoggingMiddleware(logger))
	transport.RegisterMirrorEndpoints(c, engine, broadcaster, e)

	var backgroundWg sync.WaitGroup
	backgroundWg.Add(1)
	go func() {
		defer backgroundWg.Done()
		if err := engine.Run(backGroundCtx); err != nil {
			sentry.CaptureException(err)
			// stale data is worse than no data
			logger.Fatalf("Mirror engine stopped: %v", err)
		}
		logger.Info("Mirror engine done")
	}()

	if c.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, "mirror", c.PrometheusPort, e)
	}

	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	backgroundWg.Wait()
	logger.Info("Mirror exiting gracefully. Goodbye.")
}
