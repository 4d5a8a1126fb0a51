package source

import (
	"context"
	"errors"
	"path"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

// MQTT keeps the last value published on <prefix>/<channel>. Meters publish
// retained messages, so a fresh subscription sees current values immediately.
type MQTT struct {
	client mqtt.Client
	prefix string
	log    zerolog.Logger

	mu     sync.RWMutex
	latest map[domain.Channel]float64
}

var errNotConnected = errors.New("mqtt client not connected")

func NewMQTT(client mqtt.Client, prefix string, logger zerolog.Logger) *MQTT {
	return &MQTT{
		client: client,
		prefix: prefix,
		log:    logger.With().Str("component", "mqtt-source").Logger(),
		latest: make(map[domain.Channel]float64),
	}
}

// Subscribe registers the wildcard subscription; call after Connect.
func (m *MQTT) Subscribe() error {
	token := m.client.Subscribe(m.prefix+"/+", 1, func(_ mqtt.Client, msg mqtt.Message) {
		m.handle(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

func (m *MQTT) handle(topic string, payload []byte) {
	if path.Dir(topic) != m.prefix {
		return
	}
	ch := domain.Channel(path.Base(topic))
	v, ok, err := parseValue(string(payload))
	if err != nil {
		m.log.Warn().Err(err).Str("topic", topic).Msg("discarding telemetry message")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok {
		delete(m.latest, ch)
		return
	}
	m.latest[ch] = v
}

func (m *MQTT) Read(context.Context) (Reading, error) {
	if !m.client.IsConnectionOpen() {
		return nil, unavailable(errNotConnected)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(Reading, len(m.latest))
	for ch, v := range m.latest {
		out[ch] = v
	}
	return out, nil
}
