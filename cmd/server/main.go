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

	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shitcoingarden/garden.go/db"
	"github.com/shitcoingarden/garden.go/db/migrations"
	"github.com/shitcoingarden/garden.go/docs"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/logging"
	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/shitcoingarden/garden.go/lib/tokens"
	"github.com/shitcoingarden/garden.go/lib/transport"
	"github.com/shitcoingarden/garden.go/rabbitmq"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title        Shitcoin Garden
// @version      0.1.0
// @description  Presale issuance of short-lived tokens with pro-rata claiming.

// @contact.name  Shitcoin Garden
// @contact.url   https://github.com/shitcoingarden/garden.go

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @schemes                     https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := logging.Logger(c.LogFilePath, c.LogLevel)

	//Todo: use timeout for startupcontext
	startupCtx := context.Background()

	// DATABASE_URI=memory:// keeps the ledger in process, for local runs
	var backend service.Backend
	if c.DatabaseUri == db.MemoryDSN {
		logger.Warn("Using the in-memory ledger, nothing survives a restart")
		backend = service.NewMemoryBackend()
	} else {
		dbConn, err := db.Open(c)
		if err != nil {
			logger.Fatalf("Error initializing db connection: %v", err)
		}
		group, err := migrations.Apply(startupCtx, dbConn)
		if err != nil {
			logger.Fatalf("Error migrating database: %v", err)
		}
		if !group.IsZero() {
			logger.Infof("Applied migration group %s", group)
		}
		backend = db.NewLedgerBackend(dbConn)
	}

	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// Commands then stay in the outbox until a relay is configured.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, logger)
		if err != nil {
			logger.Fatal(err)
		}

		defer amqpClient.Close()

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithGardenEventExchange(c.RabbitMQGardenEventExchange),
			rabbitmq.WithGardenCommandExchange(c.RabbitMQGardenCommandExchange),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	svc := &service.GardenService{
		Config:         c,
		Backend:        backend,
		Clock:          service.SystemClock{},
		Addrs:          garden.Bech32Validator{Prefix: c.AddressPrefix},
		Logger:         logger,
		EventPubSub:    service.NewPubsub(),
		RabbitMQClient: rabbitmqClient,
	}
	if err = svc.Instantiate(startupCtx, c.Garden); err != nil {
		logger.Fatalf("Error instantiating the garden: %v", err)
	}

	//init echo server
	e := transport.InitEcho(c.DefaultRateLimit, c.SentryDSN, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("garden.go")))
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for operations
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)
	secured := e.Group("", tokens.Middleware(c.JWTSecret, garden.Bech32Validator{Prefix: c.AddressPrefix}), logMw)

	transport.RegisterGardenEndpoints(svc, e, secured, strictRateLimitMiddleware, tokens.AdminTokenMiddleware(c.AdminToken), logMw)

	//Swagger API spec
	docs.SwaggerInfo.Host = c.Host
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var backgroundWg sync.WaitGroup
	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	//Start webhook subscription
	if svc.Config.WebhookUrl != "" {
		backgroundWg.Add(1)
		go func() {
			svc.StartWebhookSubscription(backGroundCtx)
			svc.Logger.Info("Webhook routine done")
			backgroundWg.Done()
		}()
	}
	//Start rabbit publisher and the outbox relay
	if svc.RabbitMQClient != nil {
		backgroundWg.Add(1)
		go func() {
			err := svc.StartRabbitMqEventPublisher(backGroundCtx)
			if err != nil {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}

			svc.Logger.Info("Rabbit event publisher done")
			backgroundWg.Done()
		}()

		backgroundWg.Add(1)
		go func() {
			err := svc.StartOutboxRelay(backGroundCtx)
			if err != nil {
				sentry.CaptureException(err)
				//the relay schedule is invalid, commands would pile up
				svc.Logger.Fatal(err)
			}
			svc.Logger.Info("Outbox relay done")
			backgroundWg.Done()
		}()
	}

	//Start Prometheus server if necessary
	if svc.Config.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, "garden", c.PrometheusPort, e)
	}

	// Start server
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
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("Garden exiting gracefully. Goodbye.")
}
