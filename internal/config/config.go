package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment (and an
// optional .env file).
type Config struct {
	Port string `mapstructure:"port"`

	DatabaseURL string `mapstructure:"database_url"`
	DBHost      string `mapstructure:"db_host"`
	DBUser      string `mapstructure:"db_user"`
	DBPassword  string `mapstructure:"db_password"`
	DBName      string `mapstructure:"db_name"`
	DBPort      string `mapstructure:"db_port"`
	DBTimeZone  string `mapstructure:"db_timezone"`

	JWTSecret string `mapstructure:"jwt_secret"`

	TwilioAccountSID  string `mapstructure:"twilio_account_sid"`
	TwilioAuthToken   string `mapstructure:"twilio_auth_token"`
	TwilioPhoneNumber string `mapstructure:"twilio_phone_number"`

	SMTPHost         string `mapstructure:"smtp_host"`
	SMTPPort         int    `mapstructure:"smtp_port"`
	SMTPUsername     string `mapstructure:"smtp_username"`
	SMTPPassword     string `mapstructure:"smtp_password"`
	DefaultFromEmail string `mapstructure:"default_from_email"`

	LowStockDashboardLimit int `mapstructure:"low_stock_dashboard_limit"`
}

var defaults = map[string]any{
	"port":                      "3000",
	"database_url":              "",
	"db_host":                   "localhost",
	"db_user":                   "postgres",
	"db_password":               "",
	"db_name":                   "optistore",
	"db_port":                   "5432",
	"db_timezone":               "Asia/Kolkata",
	"jwt_secret":                "",
	"twilio_account_sid":        "",
	"twilio_auth_token":         "",
	"twilio_phone_number":       "",
	"smtp_host":                 "",
	"smtp_port":                 587,
	"smtp_username":             "",
	"smtp_password":             "",
	"default_from_email":        "",
	"low_stock_dashboard_limit": 5,
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromViper(viper.New())
}

// FromViper fills a Config from v after applying defaults and env binding.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// DSN returns DATABASE_URL or assembles one from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

// SMSEnabled reports whether Twilio credentials are configured.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// EmailEnabled reports whether an SMTP relay is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.DefaultFromEmail != ""
}
