// Package ingest receives bike broadcasts over MQTT.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Cycleroom.influxDB/internal/models"
	"Cycleroom.influxDB/internal/service"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	connectTimeout    = 10 * time.Second
	handleTimeout     = 5 * time.Second
	disconnectQuiesce = 1000 // milliseconds
	subscribeQoS      = 1
)

// ErrNotConnected is returned by Ping while the broker is unreachable.
var ErrNotConnected = errors.New("mqtt: not connected")

// Processor stores and broadcasts one reading.
type Processor interface {
	ProcessReading(ctx context.Context, source string, reading models.TelemetryReading) (models.SessionRecord, error)
}

// Subscriber feeds readings published on a topic filter into a Processor.
type Subscriber struct {
	client    pahomqtt.Client
	topic     string
	processor Processor
	logger    *zap.SugaredLogger
}

// NewSubscriber prepares a client for broker; call Start to connect.
func NewSubscriber(broker, clientID, topic string, processor Processor, logger *zap.SugaredLogger) *Subscriber {
	s := &Subscriber{
		topic:     topic,
		processor: processor,
		logger:    logger.Named("mqtt"),
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		// clean sessions drop subscriptions, so resubscribe on every connect
		token := c.Subscribe(s.topic, subscribeQoS, s.onMessage)
		go func() {
			if !token.WaitTimeout(connectTimeout) {
				s.logger.Errorw("subscribe timed out", "topic", s.topic)
				return
			}
			if err := token.Error(); err != nil {
				s.logger.Errorw("subscribe failed", "topic", s.topic, "error", err)
				return
			}
			s.logger.Infow("📡 subscribed to bike telemetry", "topic", s.topic)
		}()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		s.logger.Warnw("connection lost", "error", err)
	})
	s.client = pahomqtt.NewClient(opts)
	return s
}

// Start connects to the broker.
func (s *Subscriber) Start() error {
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt: connect timeout after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: connect: %w", err)
	}
	return nil
}

// Ping reports whether the broker connection is up.
func (s *Subscriber) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	return nil
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	s.client.Disconnect(disconnectQuiesce)
}

func (s *Subscriber) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("mqtt handler panic recovered", "topic", msg.Topic(), "panic", r)
		}
	}()
	if err := s.HandleMessage(msg.Topic(), msg.Payload()); err != nil {
		s.logger.Warnw("reading dropped", "topic", msg.Topic(), "error", err)
	}
}

// HandleMessage decodes one payload. A reading without equipment_id takes it from the last topic level.
func (s *Subscriber) HandleMessage(topic string, payload []byte) error {
	var reading models.TelemetryReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	if reading.EquipmentID == "" {
		reading.EquipmentID = equipmentFromTopic(topic)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	_, err := s.processor.ProcessReading(ctx, service.SourceMQTT, reading)
	return err
}

func equipmentFromTopic(topic string) string {
	i := strings.LastIndex(topic, "/")
	last := topic[i+1:]
	if last == "+" || last == "#" {
		return ""
	}
	return last
}
