package domain

import "time"

// Channel names a live telemetry value in the source store.
type Channel string

const (
	ChannelPower   Channel = "POWER"
	ChannelCurrent Channel = "CURRENT_DATA"
)

// Channels lists every channel a tick samples.
var Channels = []Channel{ChannelPower, ChannelCurrent}

// Sample is one (power, current, timestamp) observation. Power is in watts,
// current in amps.
type Sample struct {
	Power     float64   `db:"power_value" json:"power_value"`
	Current   float64   `db:"current_value" json:"current_value"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// EnergyMetric is the persisted, append-only form of a Sample: one energy_metrics row.
type EnergyMetric struct {
	ID int64 `db:"id" json:"id"`
	Sample
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
