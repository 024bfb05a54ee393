package config

// Alert controls where below-minimum stock alerts are delivered.
// Alerts are always logged and counted; Outbox additionally publishes them
// to Kafka through the relay.
type Alert struct {
	Outbox bool `env:"ALERT_OUTBOX" envDefault:"true"`
}
