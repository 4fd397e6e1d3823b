package publishing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aptcatalog/internal/app/policies"
	"aptcatalog/internal/domain/shared/events"
)

// Producer is the broker-facing side, satisfied by the kafka producer.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Envelope is the CloudEvents-shaped wrapper written to the broker.
type Envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// Publisher encodes events synchronously and hands them to the producer.
type Publisher struct {
	Producer    Producer
	TopicPrefix string
	Source      string
	IDGenerator func() string
}

var ErrProducerMissing = errors.New("publishing: producer not configured")

func (p *Publisher) Publish(ctx context.Context, evs []events.DomainEvent) error {
	if p == nil || p.Producer == nil {
		return ErrProducerMissing
	}
	var errs []error
	for _, ev := range evs {
		payload, err := p.Encode(ev)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		headers := map[string]string{
			"ce_type":      ev.EventName() + ".v1",
			"content-type": "application/cloudevents+json",
		}
		if err := p.Producer.Publish(ctx, p.TopicFor(ev.EventName()), ev.AggregateID(), payload, headers); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", ev.EventName(), err))
		}
	}
	return errors.Join(errs...)
}

// Encode wraps ev into an Envelope and marshals it.
func (p *Publisher) Encode(ev events.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventName(), err)
	}
	idGen := p.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	source := p.Source
	if source == "" {
		source = "aptcatalog"
	}
	return json.Marshal(Envelope{
		SpecVersion:     "1.0",
		ID:              idGen(),
		Type:            ev.EventName() + ".v1",
		Source:          source,
		Subject:         ev.AggregateID(),
		Time:            ev.OccurredAt().UTC(),
		DataContentType: "application/json",
		Data:            data,
	})
}

// TopicFor maps an event name like "apartment.created" to its topic.
func (p *Publisher) TopicFor(name string) string {
	topic := strings.ReplaceAll(name, ".", "-")
	if p.TopicPrefix == "" {
		return topic
	}
	return strings.TrimSuffix(p.TopicPrefix, ".") + "." + topic
}

var _ policies.EventPublisher = (*Publisher)(nil)
