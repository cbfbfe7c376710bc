package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Notify     NotifyConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	TimeZone     string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// SchedulingConfig holds the booking engine defaults.
type SchedulingConfig struct {
	DefaultMaxPatients int
	DefaultOnlineQuota int
	TxTimeout          time.Duration
	MaxTxAttempts      int
}

type NotifyConfig struct {
	ChannelPrefix string
	Timeout       time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_CORS_ORIGINS", "*")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("SCHEDULING_DEFAULT_MAX_PATIENTS", 1)
	v.SetDefault("SCHEDULING_DEFAULT_ONLINE_QUOTA", 0)
	v.SetDefault("SCHEDULING_TX_TIMEOUT", "10s")
	v.SetDefault("SCHEDULING_TX_MAX_ATTEMPTS", 3)
	v.SetDefault("NOTIFY_CHANNEL_PREFIX", "clinic:appointments")
	v.SetDefault("NOTIFY_TIMEOUT", "3s")
}

// LoadConfig reads .env when present and lets the environment override it.
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("APP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			TimeZone:     v.GetString("DB_TIMEZONE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: durationOr(v, "JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		Scheduling: SchedulingConfig{
			DefaultMaxPatients: v.GetInt("SCHEDULING_DEFAULT_MAX_PATIENTS"),
			DefaultOnlineQuota: v.GetInt("SCHEDULING_DEFAULT_ONLINE_QUOTA"),
			TxTimeout:          durationOr(v, "SCHEDULING_TX_TIMEOUT", 10*time.Second),
			MaxTxAttempts:      v.GetInt("SCHEDULING_TX_MAX_ATTEMPTS"),
		},
		Notify: NotifyConfig{
			ChannelPrefix: v.GetString("NOTIFY_CHANNEL_PREFIX"),
			Timeout:       durationOr(v, "NOTIFY_TIMEOUT", 3*time.Second),
		},
	}

	if config.Scheduling.DefaultMaxPatients < 1 {
		config.Scheduling.DefaultMaxPatients = 1
	}
	if config.Scheduling.MaxTxAttempts < 1 {
		config.Scheduling.MaxTxAttempts = 1
	}

	return config, nil
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
