package config

import (
	"log"
	"time"

	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Printer  PrinterConfig
	Register RegisterConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Import   ImportConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver   string // sqlite or postgres
	Path     string // sqlite file
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type PrinterConfig struct {
	Type          string // usb, network or none
	USBPath       string
	Address       string
	CharsPerLine  int
	StoreName     string
	RatePerSecond float64
	QueueSize     int
}

type RegisterConfig struct {
	CashierName         string
	POSID               string
	DefaultExchangeRate decimal.Decimal
	CompletionCountdown time.Duration
	IdempotencyTTL      time.Duration
}

type RedisConfig struct {
	Addr     string // empty disables the catalog cache
	Password string
	DB       int
	TTL      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type ImportConfig struct {
	MaxUploadSize int64
}

const fallbackExchangeRate = "20.00"

func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	v.SetDefault("APP_NAME", "borderpos")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "./borderpos.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "borderpos")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Tijuana")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_CHARS_PER_LINE", 48)
	v.SetDefault("PRINTER_STORE_NAME", "BorderPOS")
	v.SetDefault("PRINTER_RATE_PER_SECOND", 2.0)
	v.SetDefault("PRINTER_QUEUE_SIZE", 16)
	v.SetDefault("REGISTER_CASHIER_NAME", "Cashier")
	v.SetDefault("REGISTER_POS_ID", "POS1")
	v.SetDefault("REGISTER_EXCHANGE_RATE", fallbackExchangeRate)
	v.SetDefault("REGISTER_COMPLETION_SECONDS", 5)
	v.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL_MINUTES", 15)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:1420")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("IMPORT_MAX_UPLOAD_SIZE", 10485760)

	rate, err := money.ParseExchangeRate(v.GetString("REGISTER_EXCHANGE_RATE"))
	if err != nil {
		log.Printf("Warning: invalid REGISTER_EXCHANGE_RATE %q, using %s", v.GetString("REGISTER_EXCHANGE_RATE"), fallbackExchangeRate)
		rate = decimal.RequireFromString(fallbackExchangeRate)
	}

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Path:     v.GetString("DB_PATH"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		Printer: PrinterConfig{
			Type:          v.GetString("PRINTER_TYPE"),
			USBPath:       v.GetString("PRINTER_USB_PATH"),
			Address:       v.GetString("PRINTER_ADDRESS"),
			CharsPerLine:  v.GetInt("PRINTER_CHARS_PER_LINE"),
			StoreName:     v.GetString("PRINTER_STORE_NAME"),
			RatePerSecond: v.GetFloat64("PRINTER_RATE_PER_SECOND"),
			QueueSize:     v.GetInt("PRINTER_QUEUE_SIZE"),
		},
		Register: RegisterConfig{
			CashierName:         v.GetString("REGISTER_CASHIER_NAME"),
			POSID:               v.GetString("REGISTER_POS_ID"),
			DefaultExchangeRate: rate,
			CompletionCountdown: time.Duration(v.GetInt("REGISTER_COMPLETION_SECONDS")) * time.Second,
			IdempotencyTTL:      time.Duration(v.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("REDIS_TTL_MINUTES")) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		Import: ImportConfig{
			MaxUploadSize: v.GetInt64("IMPORT_MAX_UPLOAD_SIZE"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
