package source

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/config"
)

// FromConfig builds the Reader selected by SOURCE_DRIVER. The returned close
// func releases the underlying client.
func FromConfig(ctx context.Context, logger zerolog.Logger) (Reader, func(), error) {
	switch driver := config.SourceDriver(); driver {
	case "firebase":
		fb, err := NewFirebase(ctx, config.FirebaseURL(), config.FirebaseCredentials(), defaultFirebaseTimeout)
		if err != nil {
			return nil, nil, err
		}
		return fb, func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
		})
		return NewRedis(client, config.RedisKeyPrefix()), func() { _ = client.Close() }, nil

	case "mqtt":
		var src *MQTT
		opts := mqtt.NewClientOptions().
			AddBroker(config.MQTTBroker()).
			SetClientID(config.MQTTClientID()).
			SetAutoReconnect(true).
			SetConnectRetry(true).
			SetOnConnectHandler(func(mqtt.Client) {
				// resubscribe after every reconnect
				if err := src.Subscribe(); err != nil {
					logger.Error().Err(err).Msg("mqtt subscribe failed")
				}
			}).
			SetConnectionLostHandler(func(_ mqtt.Client, err error) {
				logger.Warn().Err(err).Msg("mqtt connection lost")
			})
		client := mqtt.NewClient(opts)
		src = NewMQTT(client, config.MQTTTopicPrefix(), logger)
		// with ConnectRetry the token completes on first success or never; do not block startup on it
		client.Connect()
		return src, func() { client.Disconnect(250) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown SOURCE_DRIVER %q", driver)
	}
}
