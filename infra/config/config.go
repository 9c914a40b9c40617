package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ResumePolicy controls what happens to sequence numbers when a known
// session reconnects without requesting a reset.
type ResumePolicy string

const (
	// ResumeSequences continues the previous epoch's sequence numbers.
	ResumeSequences ResumePolicy = "resume"
	// ResetSequences starts a fresh epoch at sequence 1 on every logon.
	ResetSequences ResumePolicy = "reset"
)

type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Session SessionConfig `mapstructure:"session"`
	Streams StreamsConfig `mapstructure:"streams"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Log     LogConfig     `mapstructure:"log"`
}

type EngineConfig struct {
	BindAddress       string        `mapstructure:"bind_address"`
	AdminAddress      string        `mapstructure:"admin_address"`
	MetricsAddress    string        `mapstructure:"metrics_address"`
	DataDir           string        `mapstructure:"data_dir"`
	AdminQueueSize    int           `mapstructure:"admin_queue_size"`
	LibraryTimeout    time.Duration `mapstructure:"library_timeout"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type SessionConfig struct {
	ResumePolicy      ResumePolicy  `mapstructure:"resume_policy"`
	SendingTimeWindow time.Duration `mapstructure:"sending_time_window"`
	ReplyTimeout      time.Duration `mapstructure:"reply_timeout"`
}

type StreamsConfig struct {
	MaxClaimAttempts int           `mapstructure:"max_claim_attempts"`
	SegmentSize      uint64        `mapstructure:"segment_size"`
	SegmentDuration  time.Duration `mapstructure:"segment_duration"`
}

type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	ReliefTopic  string   `mapstructure:"relief_topic"`
	ArchiveTopic string   `mapstructure:"archive_topic"`
	Enabled      bool     `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional YAML file plus FIXGW_* env
// overrides. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("fixgw")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.bind_address", "0.0.0.0:9880")
	v.SetDefault("engine.admin_address", "127.0.0.1:9881")
	v.SetDefault("engine.metrics_address", "127.0.0.1:9882")
	v.SetDefault("engine.data_dir", "./fixgw_data")
	v.SetDefault("engine.admin_queue_size", 16)
	v.SetDefault("engine.library_timeout", 10*time.Second)
	v.SetDefault("engine.heartbeat_interval", 30*time.Second)

	v.SetDefault("session.resume_policy", string(ResumeSequences))
	v.SetDefault("session.sending_time_window", 2*time.Minute)
	v.SetDefault("session.reply_timeout", 5*time.Second)

	v.SetDefault("streams.max_claim_attempts", 10)
	v.SetDefault("streams.segment_size", uint64(64*1024*1024))
	v.SetDefault("streams.segment_duration", time.Hour)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.relief_topic", "fixgw.relief")
	v.SetDefault("kafka.archive_topic", "fixgw.archive")

	v.SetDefault("log.level", "info")
}

func (c Config) Validate() error {
	if c.Engine.BindAddress == "" {
		return fmt.Errorf("engine.bind_address must be set")
	}
	if c.Engine.DataDir == "" {
		return fmt.Errorf("engine.data_dir must be set")
	}
	if c.Engine.AdminQueueSize <= 0 {
		return fmt.Errorf("engine.admin_queue_size must be positive")
	}
	switch c.Session.ResumePolicy {
	case ResumeSequences, ResetSequences:
	default:
		return fmt.Errorf("session.resume_policy %q is not one of resume, reset", c.Session.ResumePolicy)
	}
	if c.Streams.MaxClaimAttempts <= 0 {
		return fmt.Errorf("streams.max_claim_attempts must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must be set when kafka.enabled is true")
	}
	return nil
}
