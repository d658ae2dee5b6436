package service

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"github.com/shitcoingarden/garden.go/rabbitmq"
)

// StartOutboxRelay sweeps the command outbox on the configured schedule
// until ctx is done.
func (svc *GardenService) StartOutboxRelay(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(svc.Config.OutboxRelaySchedule, func() {
		if _, err := svc.RelayOutbox(ctx); err != nil {
			svc.Logger.Errorf("Outbox relay failed: %v", err)
			sentry.CaptureException(err)
		}
	})
	if err != nil {
		return err
	}
	svc.Logger.Infof("Starting outbox relay with schedule %s", svc.Config.OutboxRelaySchedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RelayOutbox publishes pending commands in commit order. It stops at the
// first failure so later commands never overtake earlier ones; whatever was
// published is marked before returning.
func (svc *GardenService) RelayOutbox(ctx context.Context) (int, error) {
	svc.relayMu.Lock()
	defer svc.relayMu.Unlock()

	pending, err := svc.Backend.PendingCommands(ctx, svc.Config.OutboxRelayBatchSize)
	if err != nil {
		return 0, err
	}
	published := make([]int64, 0, len(pending))
	var publishErr error
	for _, cmd := range pending {
		publishErr = svc.RabbitMQClient.PublishCommand(ctx, rabbitmq.OutboundCommand{
			ID:      cmd.ID,
			Kind:    cmd.Kind,
			Payload: cmd.Payload,
		})
		if publishErr != nil {
			break
		}
		published = append(published, cmd.ID)
	}
	if len(published) > 0 {
		if err := svc.Backend.MarkPublished(ctx, published); err != nil {
			return 0, err
		}
		svc.Logger.Debugf("Relayed %d outbox commands", len(published))
	}
	return len(published), publishErr
}
