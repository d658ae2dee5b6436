package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shitcoingarden/garden.go/common"
	"github.com/shitcoingarden/garden.go/lib/garden"
)

var webhookClient = &http.Client{Timeout: 10 * time.Second}

func (svc *GardenService) StartWebhookSubscription(ctx context.Context) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", svc.Config.WebhookUrl)
	for {
		events := make(chan garden.Event, common.EventSubscriberBuffer)
		subId, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
		if err != nil {
			svc.Logger.Error(err)
			return
		}
		if !svc.forwardToWebhook(ctx, events) {
			svc.EventPubSub.Unsubscribe(subId, common.TopicAllEvents)
			return
		}
		svc.Logger.Warn("Webhook subscription fell behind, resubscribing")
	}
}

// forwardToWebhook returns false when ctx is done and true when the
// subscription was dropped.
func (svc *GardenService) forwardToWebhook(ctx context.Context, events chan garden.Event) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return true
			}
			svc.postToWebhook(ctx, event)
		}
	}
}

func (svc *GardenService) postToWebhook(ctx context.Context, event garden.Event) {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.Config.WebhookUrl, payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := webhookClient.Do(req)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
