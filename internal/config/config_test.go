package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Directions: []Direction{
			{Key: "europe", Name: "Европа", AdminChatID: -100},
			{Key: "middle-east", Name: "Ближний Восток", AdminChatID: -200},
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.RateLimit.MaxRequests <= 0 || cfg.RateLimit.WindowSeconds <= 0 {
		t.Errorf("rate limit not defaulted: %+v", cfg.RateLimit)
	}
}

func TestNormalizeRejectsDelimiterInDirectionKey(t *testing.T) {
	for _, key := range []string{"middle_east", "middle east", "eu\trope"} {
		cfg := validConfig()
		cfg.Directions[0].Key = key
		err := Normalize(cfg)
		if err == nil {
			t.Errorf("key %q accepted, want rejection", key)
			continue
		}
		if !strings.Contains(err.Error(), "key") {
			t.Errorf("key %q: err = %v, want key validation error", key, err)
		}
	}
}

func TestNormalizeRejectsDuplicateDirectionKey(t *testing.T) {
	cfg := validConfig()
	cfg.Directions[1].Key = "europe"
	if err := Normalize(cfg); err == nil {
		t.Fatal("duplicate key accepted")
	}
}

func TestNormalizeRequiresAdminChat(t *testing.T) {
	cfg := validConfig()
	for i := range cfg.Directions {
		cfg.Directions[i].AdminChatID = 0
	}
	if err := Normalize(cfg); err == nil {
		t.Fatal("config without any admin chat accepted")
	}
}

func TestDirectionLookups(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if id, ok := cfg.AdminChatFor("middle-east"); !ok || id != -200 {
		t.Errorf("AdminChatFor = %d, %v", id, ok)
	}
	if key, ok := cfg.DirectionByChat(-100); !ok || key != "europe" {
		t.Errorf("DirectionByChat = %q, %v", key, ok)
	}
	if !cfg.IsAdminChat(-200) || cfg.IsAdminChat(-300) {
		t.Error("IsAdminChat mapping wrong")
	}
}
