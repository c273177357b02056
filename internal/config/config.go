// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	RemoteStore     `yaml:"remote_store"`
	LocalStore      `yaml:"local_store"`
	RecipeAPI       `yaml:"recipe_api"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"4000"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	RateLimitBurst int           `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// RemoteStore настройки удалённого хранилища.
//
// Endpoint — адрес PostgreSQL в формате URL, AccessKey — пароль, который
// подставляется в адрес при подключении. Если хотя бы одно поле пустое,
// сервис работает на локальном файле.
type RemoteStore struct {
	Endpoint  string `yaml:"endpoint" env:"REMOTE_STORE_URL"`
	AccessKey string `yaml:"access_key" env:"REMOTE_STORE_KEY"`
}

// LocalStore настройки локального файлового хранилища.
type LocalStore struct {
	Path string `yaml:"path" env:"LOCAL_DB_PATH" env-default:"./data/db.json"`
}

// RecipeAPI настройки внешнего каталога рецептов.
type RecipeAPI struct {
	BaseURL  string        `yaml:"base_url" env:"RECIPE_API_BASE_URL" env-default:"https://api.spoonacular.com"`
	APIKey   string        `yaml:"api_key" env:"RECIPE_API_KEY"`
	Timeout  time.Duration `yaml:"timeout" env:"RECIPE_API_TIMEOUT" env-default:"10s"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"RECIPE_CACHE_TTL" env-default:"10m"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RabbitMQ настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"surchef.events"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-default:"surchef-dev-secret"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"168h"`
}

// RemoteEnabled сообщает, заданы ли оба параметра удалённого хранилища.
func (c *Config) RemoteEnabled() bool {
	return c.RemoteStore.Endpoint != "" && c.RemoteStore.AccessKey != ""
}

// Address возвращает адрес, на котором слушает HTTP-сервер.
func (c *Config) Address() string {
	return ":" + c.Port
}

// Load читает конфиг из файла CONFIG_PATH, если он задан, иначе из переменных окружения.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RemoteStore:\n"+
			"  Endpoint: %s\n"+
			"  AccessKey: %s\n"+
			"LocalStore:\n"+
			"  Path: %s\n"+
			"RecipeAPI:\n"+
			"  BaseURL: %s\n"+
			"  APIKey: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"HTTPServer:\n"+
			"  Port: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.RemoteStore.Endpoint,
		mask(c.RemoteStore.AccessKey),
		c.LocalStore.Path,
		c.RecipeAPI.BaseURL,
		mask(c.RecipeAPI.APIKey),
		c.AddressRedis,
		mask(c.RabbitMQ.URL),
		c.Port,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
