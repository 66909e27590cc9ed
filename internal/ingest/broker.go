package ingest

import (
	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"go.uber.org/zap"
)

// Broker is an embedded MQTT broker for deployments that have no external
// one. Meters publish straight to the API process.
type Broker struct {
	server *mochi.Server
	logger *zap.Logger
}

// NewBroker builds an embedded broker listening on addr.
func NewBroker(addr string, logger *zap.Logger) (*Broker, error) {
	server := mochi.New(nil)
	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, err
	}

	tcp := listeners.NewTCP(listeners.Config{ID: "meters", Address: addr})
	if err := server.AddListener(tcp); err != nil {
		return nil, err
	}

	return &Broker{server: server, logger: logger}, nil
}

// Start serves broker traffic until Close is called.
func (b *Broker) Start() {
	go func() {
		if err := b.server.Serve(); err != nil {
			b.logger.Error("embedded mqtt broker stopped", zap.Error(err))
		}
	}()
}

// Close shuts the broker down.
func (b *Broker) Close() error {
	return b.server.Close()
}
