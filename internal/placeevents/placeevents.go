// Package placeevents publishes every place a search returns to Kafka.
package placeevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
)

type Event struct {
	Kind    string    `json:"kind"`
	ID      int64     `json:"osm_id"`
	Name    string    `json:"name"`
	Country string    `json:"country,omitempty"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	TS      time.Time `json:"ts"`
}

type Publisher struct {
	logger  *slog.Logger
	topic   string
	events  chan Event
	prod    sarama.AsyncProducer
	stopped chan struct{}
	now     func() time.Time
}

func NewPublisher(logger *slog.Logger, brokers []string, topic string, queueSize int) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("placeevents: no brokers configured")
	}
	prod, err := sarama.NewAsyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("placeevents: create async producer: %w", err)
	}
	return newPublisher(logger, prod, topic, queueSize), nil
}

func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false
	return cfg
}

func newPublisher(logger *slog.Logger, prod sarama.AsyncProducer, topic string, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	p := &Publisher{
		logger:  logger.With("component", "placeevents", "topic", topic),
		topic:   topic,
		events:  make(chan Event, queueSize),
		prod:    prod,
		stopped: make(chan struct{}),
		now:     time.Now,
	}

	go func() {
		defer close(p.stopped)
		for ev := range p.events {
			b, err := json.Marshal(ev)
			if err != nil {
				p.logger.Error("marshal place event", "err", err)
				observability.IncPlaceEvent("failed")
				continue
			}
			p.prod.Input() <- &sarama.ProducerMessage{
				Topic: p.topic,
				Key:   sarama.StringEncoder(strconv.FormatInt(ev.ID, 10)),
				Value: sarama.ByteEncoder(b),
			}
		}
	}()

	go func() {
		for err := range p.prod.Errors() {
			if err != nil {
				p.logger.Warn("producer error", "err", err)
				observability.IncPlaceEvent("failed")
			}
		}
	}()

	return p
}

// Publish queues ev without blocking; a full queue drops it.
func (p *Publisher) Publish(ev Event) {
	select {
	case p.events <- ev:
		observability.IncPlaceEvent("queued")
	default:
		observability.IncPlaceEvent("dropped")
	}
}

// EmitPlaces publishes one event per place.
func (p *Publisher) EmitPlaces(_ context.Context, kind string, places []model.PlaceInfo) {
	ts := p.now().UTC()
	for _, pl := range places {
		p.Publish(Event{
			Kind:    kind,
			ID:      int64(pl.ID),
			Name:    pl.Name,
			Country: pl.Country,
			Lat:     pl.Lat,
			Lon:     pl.Lon,
			TS:      ts,
		})
	}
}

// Close drains the queue and closes the producer. Publish must not be called
// afterwards.
func (p *Publisher) Close() error {
	close(p.events)
	<-p.stopped

	if err := p.prod.Close(); err != nil {
		return fmt.Errorf("placeevents: close producer: %w", err)
	}
	return nil
}
