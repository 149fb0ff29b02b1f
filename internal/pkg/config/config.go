package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	Shop     ShopConfig     `mapstructure:"shop"`
	SePay    SePayConfig    `mapstructure:"sepay"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // hours
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

// ShopConfig holds order-engine tunables. Amounts are VND minor units.
type ShopConfig struct {
	FreeShippingThreshold int64 `mapstructure:"free_shipping_threshold"`
	FlatShippingFee       int64 `mapstructure:"flat_shipping_fee"`
	PaymentWindowMinutes  int   `mapstructure:"payment_window_minutes"`
	SweepIntervalMinutes  int   `mapstructure:"sweep_interval_minutes"`
}

// SePayConfig configures the bank-transfer webhook surface.
type SePayConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type SMTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	From       string `mapstructure:"from"`
	AdminEmail string `mapstructure:"admin_email"`
}

var GlobalConfig Config

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	if c.SePay.APIKey == "" {
		return errors.New("sepay webhook api key is required")
	}

	if c.Shop.FlatShippingFee < 0 || c.Shop.FreeShippingThreshold < 0 {
		return errors.New("shipping fees must not be negative")
	}

	return nil
}

// LoadConfig reads configs/config[.env].yaml and applies env overrides.
func LoadConfig() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("shop.free_shipping_threshold", 300000)
	viper.SetDefault("shop.flat_shipping_fee", 30000)
	viper.SetDefault("shop.payment_window_minutes", 15)
	viper.SetDefault("shop.sweep_interval_minutes", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// Explicit overrides for values viper cannot map from flat env vars.
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if apiKey := os.Getenv("SEPAY_API_KEY"); apiKey != "" {
		GlobalConfig.SePay.APIKey = apiKey
	}

	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
