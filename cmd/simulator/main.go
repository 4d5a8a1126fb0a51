package main

import (
	"context"
	"math"
	"math/rand/v2"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/config"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
	"github.com/ANIKETSHETTY47/power-monitoring/internal/logging"
)

const mainsVoltage = 230.0

type publishFunc func(ctx context.Context, ch domain.Channel, value float64) error

// reading produces a household-like load: a base draw, a daily swell and noise.
func reading(now time.Time) (power, current float64) {
	hour := float64(now.Hour()) + float64(now.Minute())/60
	power = 300 + 700*math.Max(0, math.Sin((hour-6)/24*2*math.Pi)) + rand.Float64()*150
	return power, power / mainsVoltage
}

func format(v float64) []byte { return []byte(strconv.FormatFloat(v, 'f', 2, 64)) }

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup(config.LogLevel(), config.LogFormat())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publish publishFunc
	switch driver := config.SourceDriver(); driver {
	case "mqtt":
		opts := mqtt.NewClientOptions().
			AddBroker(config.MQTTBroker()).
			SetClientID(config.MQTTClientID() + "-simulator")
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Fatal().Err(token.Error()).Msg("mqtt connect")
		}
		defer client.Disconnect(250)
		prefix := config.MQTTTopicPrefix()
		publish = func(_ context.Context, ch domain.Channel, v float64) error {
			// retained, so a late subscriber sees the current value
			token := client.Publish(prefix+"/"+string(ch), 1, true, format(v))
			token.Wait()
			return token.Error()
		}
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr(), Password: config.RedisPassword()})
		defer client.Close()
		prefix := config.RedisKeyPrefix()
		publish = func(ctx context.Context, ch domain.Channel, v float64) error {
			return client.Set(ctx, prefix+string(ch), format(v), 0).Err()
		}
	default:
		log.Fatal().Str("driver", driver).Msg("simulator supports SOURCE_DRIVER=mqtt or redis")
	}

	ticker := time.NewTicker(config.SimulatorInterval())
	defer ticker.Stop()
	log.Info().Str("source", config.SourceDriver()).Msg("simulator publishing; Ctrl+C to stop")
	for {
		power, current := reading(time.Now())
		for ch, v := range map[domain.Channel]float64{domain.ChannelPower: power, domain.ChannelCurrent: current} {
			if err := publish(ctx, ch, v); err != nil {
				log.Error().Err(err).Str("channel", string(ch)).Msg("publish failed")
			}
		}
		log.Debug().Float64("power", power).Float64("current", current).Msg("published")

		select {
		case <-ctx.Done():
			log.Info().Msg("simulation done")
			return
		case <-ticker.C:
		}
	}
}
