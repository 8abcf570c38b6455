package config

import "time"

// Kafka receives deal transition events. No brokers disables publishing.
type Kafka struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"KAFKA_TOPIC" envDefault:"kiosk.deal-transitions"`
	WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}
