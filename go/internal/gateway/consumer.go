package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// ConsumerConfig holds the NATS subscription settings for the gateway.
type ConsumerConfig struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConsumerConfig subscribes to everything the outbox relay
// publishes.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		URL:           nats.DefaultURL,
		Subject:       "league.>",
		MaxReconnects: -1, // infinite
		ReconnectWait: 2 * time.Second,
	}
}

// EventConsumer bridges NATS subjects into the connection manager.
type EventConsumer struct {
	manager *ConnectionManager
	nc      *nats.Conn
	sub     *nats.Subscription
	config  ConsumerConfig
}

func NewEventConsumer(manager *ConnectionManager, config ConsumerConfig) (*EventConsumer, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &EventConsumer{manager: manager, nc: nc, config: config}, nil
}

// Start subscribes and routes each event to its season's pool.
func (ec *EventConsumer) Start() error {
	sub, err := ec.nc.Subscribe(ec.config.Subject, func(msg *nats.Msg) {
		var event LeagueEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to decode league event")
			return
		}
		seasonID, err := uuid.Parse(event.SeasonID)
		if err != nil {
			log.Error().Err(err).Str("season_id", event.SeasonID).Msg("league event has bad season id")
			return
		}
		ec.manager.BroadcastToSeason(seasonID, &event)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", ec.config.Subject, err)
	}
	ec.sub = sub
	log.Info().Str("subject", ec.config.Subject).Msg("gateway consuming league events")
	return nil
}

// Close unsubscribes and drains the connection.
func (ec *EventConsumer) Close() {
	if ec.sub != nil {
		_ = ec.sub.Unsubscribe()
	}
	ec.nc.Close()
}
