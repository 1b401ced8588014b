package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	API        API
	Cache      Cache
	HTTPServer HTTPServer
	Redis      Redis
	Session    Session
}

type API struct {
	BaseURL string        `env:"CURRENCY_API_URL" env-default:"https://api.currencyapi.com"`
	Key     string        `env:"CURRENCY_API_KEY" env-required:"true"`
	Timeout time.Duration `env:"CURRENCY_API_TIMEOUT" env-default:"10s"`
}

type Cache struct {
	TTL         time.Duration `env:"CACHE_TTL" env-default:"10m"`
	RatesKey    string        `env:"CACHE_RATES_KEY" env-default:"currency_rates_cache"`
	CurrencyKey string        `env:"CACHE_CURRENCIES_KEY" env-default:"currencies_cache"`
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8082"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"2m"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type Session struct {
	// SwapDelay is the cosmetic pause before a from/to swap takes effect.
	SwapDelay time.Duration `env:"SWAP_DELAY" env-default:"300ms"`
}

func NewConfig() *Config {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatal("Error reading env: ", err)
	}

	return cfg
}
