/**
 * @description
 * This file handles configuration management for the service. It uses the
 * Viper library to read settings from environment variables or a .env file.
 *
 * @dependencies
 * - github.com/spf13/viper: For configuration management.
 */
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	StorageMode string `mapstructure:"STORAGE_MODE"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DataFile    string `mapstructure:"DATA_FILE"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	SavingsInterestRate string `mapstructure:"SAVINGS_INTEREST_RATE"`
	CreditInterestRate  string `mapstructure:"CREDIT_INTEREST_RATE"`

	PendingReminderSchedule string `mapstructure:"PENDING_REMINDER_SCHEDULE"`
	DormancySweepSchedule   string `mapstructure:"DORMANCY_SWEEP_SCHEDULE"`
	ReconcileSchedule       string `mapstructure:"RECONCILE_SCHEDULE"`
	DormancyThresholdDays   int    `mapstructure:"DORMANCY_THRESHOLD_DAYS"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("STORAGE_MODE", "memory")
	viper.SetDefault("DATA_FILE", "fortisbank.json")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SAVINGS_INTEREST_RATE", "0.02")
	viper.SetDefault("CREDIT_INTEREST_RATE", "0.1195")
	viper.SetDefault("PENDING_REMINDER_SCHEDULE", "0 9 * * *")
	viper.SetDefault("DORMANCY_SWEEP_SCHEDULE", "30 2 * * *")
	viper.SetDefault("RECONCILE_SCHEDULE", "*/5 * * * *")
	viper.SetDefault("DORMANCY_THRESHOLD_DAYS", 90)

	// Bind envs explicitly so containers pick them up reliably
	_ = viper.BindEnv("STORAGE_MODE")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("DATA_FILE")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("SAVINGS_INTEREST_RATE")
	_ = viper.BindEnv("CREDIT_INTEREST_RATE")
	_ = viper.BindEnv("PENDING_REMINDER_SCHEDULE")
	_ = viper.BindEnv("DORMANCY_SWEEP_SCHEDULE")
	_ = viper.BindEnv("RECONCILE_SCHEDULE")
	_ = viper.BindEnv("DORMANCY_THRESHOLD_DAYS")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Error reading config file: %s", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.StorageMode == "postgres" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_MODE is postgres")
	}
	if _, err := config.SavingsRate(); err != nil {
		return nil, fmt.Errorf("SAVINGS_INTEREST_RATE: %w", err)
	}
	if _, err := config.CreditRate(); err != nil {
		return nil, fmt.Errorf("CREDIT_INTEREST_RATE: %w", err)
	}

	return &config, nil
}

// SavingsRate parses the configured savings rate, a fraction such as 0.02.
func (c *Config) SavingsRate() (decimal.Decimal, error) {
	return decimal.NewFromString(c.SavingsInterestRate)
}

// CreditRate parses the configured credit rate.
func (c *Config) CreditRate() (decimal.Decimal, error) {
	return decimal.NewFromString(c.CreditInterestRate)
}
