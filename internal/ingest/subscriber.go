package ingest

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/arez-sajeel/Project-Green/internal/models"
	"github.com/arez-sajeel/Project-Green/internal/service"
)

const (
	connectTimeout = 10 * time.Second
	recordTimeout  = 10 * time.Second
	subscribeQoS   = 1
)

// Recorder stores a validated meter reading.
type Recorder interface {
	Record(ctx context.Context, reading service.MeterReading) (*models.UsageLog, bool, error)
}

// Subscriber consumes meter readings from an MQTT broker and records them.
type Subscriber struct {
	client   mqtt.Client
	recorder Recorder
	logger   *zap.Logger
}

// NewSubscriber configures an MQTT client for the given broker. Connect is
// deferred until Start so the rest of the application can come up first.
func NewSubscriber(broker, clientID, username, password string, recorder Recorder, logger *zap.Logger) *Subscriber {
	s := &Subscriber{
		recorder: recorder,
		logger:   logger,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("connected to mqtt broker", zap.String("broker", broker))
		// Subscribe inside OnConnect so subscriptions survive reconnects.
		token := client.Subscribe(TopicFilter, subscribeQoS, s.handleMessage)
		if token.Wait() && token.Error() != nil {
			logger.Error("subscribe failed", zap.String("topic", TopicFilter), zap.Error(token.Error()))
		}
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	}
	opts.OnReconnecting = func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		logger.Info("reconnecting to mqtt broker", zap.String("broker", broker))
	}

	s.client = mqtt.NewClient(opts)
	return s
}

// Start connects to the broker and begins consuming readings.
func (s *Subscriber) Start() error {
	token := s.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to mqtt broker: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (s *Subscriber) Close() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	reading, err := ParseReading(msg.Topic(), msg.Payload())
	if err != nil {
		s.logger.Warn("dropping unreadable meter message",
			zap.String("topic", msg.Topic()),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if _, inserted, err := s.recorder.Record(ctx, reading); err != nil {
		s.logger.Warn("failed to record meter reading",
			zap.String("mpan_id", reading.MPANID),
			zap.Error(err))
	} else if !inserted {
		s.logger.Debug("duplicate meter reading ignored",
			zap.String("mpan_id", reading.MPANID),
			zap.Time("timestamp", reading.Timestamp))
	}
}
