package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort                 string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL              string `env:"DATABASE_URL,required"`
	RedisAddr                string `env:"REDIS_ADDR"`
	RedisPassword            string `env:"REDIS_PASSWORD"`
	RedisDB                  int    `env:"REDIS_DB" envDefault:"0"`
	JWTSecret                string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes      int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"30"`
	PaymentWebhookSecretHash string `env:"PAYMENT_WEBHOOK_SECRET_HASH"`
	CreateRateWindowMinutes  int    `env:"CREATE_RATE_WINDOW_MINUTES" envDefault:"10"`
	CreateRateMax            int    `env:"CREATE_RATE_MAX" envDefault:"5"`
	IdempotencyTTLHours      int    `env:"IDEMPOTENCY_TTL_HOURS" envDefault:"48"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
