package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Key                        string `yaml:"key"`
	Issuer                     string `yaml:"issuer"`
	Audience                   string `yaml:"audience"`
	AccessTokenLifetimeMinutes int    `yaml:"access_token_lifetime_minutes"`
}

type SessionConfig struct {
	RefreshTokenLifetimeMinutes int `yaml:"refresh_token_lifetime_minutes"`
}

type OTPConfig struct {
	LifetimeMinutes int    `yaml:"lifetime_minutes"`
	Length          int    `yaml:"length"`
	MaxAttempts     int    `yaml:"max_attempts"`
	ResendWindow    string `yaml:"resend_window"`
}

type PasswordResetConfig struct {
	LifetimeMinutes int    `yaml:"lifetime_minutes"`
	URL             string `yaml:"url"`
}

type OutboxConfig struct {
	DispatchInterval string `yaml:"dispatch_interval"`
	BatchSize        int    `yaml:"batch_size"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App           AppConfig           `yaml:"app"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	Session       SessionConfig       `yaml:"session"`
	OTP           OTPConfig           `yaml:"otp"`
	PasswordReset PasswordResetConfig `yaml:"password_reset"`
	Outbox        OutboxConfig        `yaml:"outbox"`
	Twilio        TwilioConfig        `yaml:"twilio"`
	Casbin        CasbinConfig        `yaml:"casbin"`
}

type Config struct {
	Port            string
	GinMode         string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTKey          string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPTTL          time.Duration
	OTPLength       int
	OTPMaxAttempts  int
	OTPResendWindow time.Duration
	ResetTokenTTL   time.Duration
	ResetURL        string
	OutboxInterval  time.Duration
	OutboxBatchSize int
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	resendWindow, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	dispatchInterval, err := time.ParseDuration(configFile.Outbox.DispatchInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid outbox dispatch interval: %w", err)
	}

	if configFile.JWT.Key == "" {
		return nil, fmt.Errorf("jwt key must be configured")
	}

	return &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		DSN:             configFile.Database.DSN,
		RedisAddr:       configFile.Redis.Addr,
		RedisPassword:   configFile.Redis.Password,
		RedisDB:         configFile.Redis.DB,
		JWTKey:          configFile.JWT.Key,
		JWTIssuer:       configFile.JWT.Issuer,
		JWTAudience:     configFile.JWT.Audience,
		AccessTokenTTL:  time.Duration(configFile.JWT.AccessTokenLifetimeMinutes) * time.Minute,
		RefreshTokenTTL: time.Duration(configFile.Session.RefreshTokenLifetimeMinutes) * time.Minute,
		OTPTTL:          time.Duration(configFile.OTP.LifetimeMinutes) * time.Minute,
		OTPLength:       configFile.OTP.Length,
		OTPMaxAttempts:  configFile.OTP.MaxAttempts,
		OTPResendWindow: resendWindow,
		ResetTokenTTL:   time.Duration(configFile.PasswordReset.LifetimeMinutes) * time.Minute,
		ResetURL:        configFile.PasswordReset.URL,
		OutboxInterval:  dispatchInterval,
		OutboxBatchSize: configFile.Outbox.BatchSize,
		TwilioSID:       configFile.Twilio.AccountSID,
		TwilioToken:     configFile.Twilio.AuthToken,
		TwilioFrom:      configFile.Twilio.FromNumber,
		CasbinModelPath: configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
