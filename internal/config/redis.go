package config

// Redis backs the scan guard and the notification queue. An empty address
// keeps both in process.
type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
	QueueConcurrency   int    `env:"REDIS_QUEUE_CONCURRENCY" envDefault:"2"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
