package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageMode != "memory" {
		t.Fatalf("expected default storage mode memory, got %q", cfg.StorageMode)
	}
	rate, err := cfg.SavingsRate()
	if err != nil {
		t.Fatalf("savings rate: %v", err)
	}
	if rate.String() != "0.02" {
		t.Fatalf("expected default savings rate 0.02, got %s", rate)
	}
	if cfg.DormancyThresholdDays != 90 {
		t.Fatalf("expected default dormancy threshold 90, got %d", cfg.DormancyThresholdDays)
	}
}

func TestLoadConfigRequiresDatabaseURLForPostgres(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("STORAGE_MODE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected error to mention DATABASE_URL, got %v", err)
	}
}

func TestLoadConfigRejectsMalformedRate(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SAVINGS_INTEREST_RATE", "two percent")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected malformed rate error")
	}
	if !strings.Contains(err.Error(), "SAVINGS_INTEREST_RATE") {
		t.Fatalf("expected error to mention SAVINGS_INTEREST_RATE, got %v", err)
	}
}
