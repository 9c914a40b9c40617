package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Engine.BindAddress != "0.0.0.0:9880" {
		t.Errorf("unexpected bind address %q", cfg.Engine.BindAddress)
	}
	if cfg.Session.ResumePolicy != ResumeSequences {
		t.Errorf("expected default resume policy, got %q", cfg.Session.ResumePolicy)
	}
	if cfg.Streams.MaxClaimAttempts != 10 {
		t.Errorf("unexpected claim attempts %d", cfg.Streams.MaxClaimAttempts)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	body := `
engine:
  bind_address: "127.0.0.1:7000"
  data_dir: "/var/lib/fixgw"
session:
  resume_policy: reset
  sending_time_window: 30s
kafka:
  enabled: true
  brokers: ["localhost:9092"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.BindAddress != "127.0.0.1:7000" {
		t.Errorf("bind address not overridden: %q", cfg.Engine.BindAddress)
	}
	if cfg.Session.ResumePolicy != ResetSequences {
		t.Errorf("resume policy not overridden: %q", cfg.Session.ResumePolicy)
	}
	if cfg.Session.SendingTimeWindow != 30*time.Second {
		t.Errorf("sending time window not overridden: %v", cfg.Session.SendingTimeWindow)
	}
}

func TestLoad_InvalidResumePolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte("session:\n  resume_policy: bogus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for bogus resume policy")
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	if err := os.WriteFile(path, []byte("kafka:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing brokers")
	}
}
