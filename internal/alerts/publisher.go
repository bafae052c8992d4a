package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/multierr"

	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/enums"
)

const defaultPublishTimeout = 10 * time.Second

// Publisher fans alerts out to downstream subscribers.
type Publisher interface {
	Publish(ctx context.Context, alerts []performance.Alert) (int, error)
}

type topicPublisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSubPublisher sends alerts at or above a minimum severity to a Pub/Sub
// topic, one message per alert.
type PubSubPublisher struct {
	topic       topicPublisher
	minSeverity enums.Severity
	timeout     time.Duration
}

// NewPubSubPublisher returns nil when p is nil so callers can skip fan-out.
func NewPubSubPublisher(p *gcppubsub.Publisher) *PubSubPublisher {
	if p == nil {
		return nil
	}
	return newPubSubPublisher(&gcpPublisher{Publisher: p})
}

func newPubSubPublisher(topic topicPublisher) *PubSubPublisher {
	return &PubSubPublisher{
		topic:       topic,
		minSeverity: enums.SeverityHigh,
		timeout:     defaultPublishTimeout,
	}
}

// Publish returns how many alerts were accepted by the topic. Individual
// failures are combined into the returned error.
func (p *PubSubPublisher) Publish(ctx context.Context, alerts []performance.Alert) (int, error) {
	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type pending struct {
		alert  performance.Alert
		result publishResult
	}
	var inflight []pending
	var errs error
	for _, alert := range alerts {
		if !alert.Severity.AtLeast(p.minSeverity) {
			continue
		}
		body, err := json.Marshal(alert)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("encode alert for listing %d: %w", alert.ListingID, err))
			continue
		}
		msg := &gcppubsub.Message{
			Data: body,
			Attributes: map[string]string{
				"listing_id": strconv.FormatInt(alert.ListingID, 10),
				"alert_type": string(alert.AlertType),
				"severity":   string(alert.Severity),
			},
		}
		result := p.topic.Publish(publishCtx, msg)
		if result == nil {
			errs = multierr.Append(errs, fmt.Errorf("publisher returned nil for listing %d", alert.ListingID))
			continue
		}
		inflight = append(inflight, pending{alert: alert, result: result})
	}

	published := 0
	for _, item := range inflight {
		if _, err := item.result.Get(publishCtx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("publish alert for listing %d: %w", item.alert.ListingID, err))
			continue
		}
		published++
	}
	return published, errs
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
