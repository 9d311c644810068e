package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ai"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/ranking"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Battle *struct {
		TurnTimeoutSeconds  int `json:"turn_timeout_seconds"`
		HeartbeatTTLSeconds int `json:"heartbeat_ttl_seconds"`
		ChallengeTTLSeconds int `json:"challenge_ttl_seconds"`
		PresenceTTLSeconds  int `json:"presence_ttl_seconds"`
	} `json:"battle"`
	Tuning        *engine.Tuning   `json:"tuning"`
	Tiers         []ranking.Tier   `json:"tiers"`
	Personalities []ai.Personality `json:"personalities"`
	Log           *struct {
		Level string `json:"level"`
		Dir   string `json:"dir"`
	} `json:"log"`
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	ServerAddress string
	TurnTimeout   time.Duration
	HeartbeatTTL  time.Duration
	ChallengeTTL  time.Duration
	PresenceTTL   time.Duration
	Tuning        engine.Tuning
	Tiers         ranking.TierTable
	Personalities []ai.Personality
	LogLevel      string
	LogDir        string
}

// LoadConfig reads the configuration file at path. Every section is optional;
// omitted sections fall back to the shipped defaults. A missing file is an
// error so a typoed path never silently runs on defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := &LoadedConfig{
		ServerAddress: ":8080",
		TurnTimeout:   60 * time.Second,
		HeartbeatTTL:  90 * time.Second,
		ChallengeTTL:  5 * time.Minute,
		PresenceTTL:   2 * time.Minute,
		Tuning:        engine.DefaultTuning(),
		Tiers:         ranking.DefaultTiers(),
		Personalities: ai.DefaultPersonalities(),
		LogLevel:      "info",
	}

	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.Battle != nil {
		if rc.Battle.TurnTimeoutSeconds > 0 {
			out.TurnTimeout = time.Duration(rc.Battle.TurnTimeoutSeconds) * time.Second
		}
		if rc.Battle.HeartbeatTTLSeconds > 0 {
			out.HeartbeatTTL = time.Duration(rc.Battle.HeartbeatTTLSeconds) * time.Second
		}
		if rc.Battle.ChallengeTTLSeconds > 0 {
			out.ChallengeTTL = time.Duration(rc.Battle.ChallengeTTLSeconds) * time.Second
		}
		if rc.Battle.PresenceTTLSeconds > 0 {
			out.PresenceTTL = time.Duration(rc.Battle.PresenceTTLSeconds) * time.Second
		}
	}
	if rc.Tuning != nil {
		out.Tuning = *rc.Tuning
	}
	if len(rc.Tiers) > 0 {
		out.Tiers = ranking.TierTable(rc.Tiers)
		if !out.Tiers.Valid() {
			return nil, fmt.Errorf("config file %s: tiers must start at 0 and be strictly increasing", path)
		}
	}
	if len(rc.Personalities) > 0 {
		if err := validatePersonalities(path, rc.Personalities); err != nil {
			return nil, err
		}
		out.Personalities = rc.Personalities
	}
	if rc.Log != nil {
		if rc.Log.Level != "" {
			out.LogLevel = rc.Log.Level
		}
		out.LogDir = rc.Log.Dir
	}
	return out, nil
}

// validatePersonalities enforces unique names and sane probability ranges so
// a bad roster fails at startup, not mid-battle.
func validatePersonalities(path string, ps []ai.Personality) error {
	names := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		n := strings.ToLower(strings.TrimSpace(p.Name))
		if n == "" {
			return fmt.Errorf("config file %s: personality missing 'name'", path)
		}
		if _, exists := names[n]; exists {
			return fmt.Errorf("config file %s: duplicate personality name '%s'", path, p.Name)
		}
		names[n] = struct{}{}
		for field, v := range map[string]float64{
			"emergency_hp_threshold":  p.EmergencyHPThreshold,
			"emergency_defend_chance": p.EmergencyDefendChance,
			"retreat_hp_threshold":    p.RetreatHPThreshold,
			"retreat_chance":          p.RetreatChance,
		} {
			if v < 0 || v > 1 {
				return fmt.Errorf("config file %s: personality '%s': %s must be in [0,1]", path, p.Name, field)
			}
		}
		if p.ThinkDelayMinMs < 0 || p.ThinkDelayMaxMs < p.ThinkDelayMinMs {
			return fmt.Errorf("config file %s: personality '%s': invalid think delay range", path, p.Name)
		}
	}
	return nil
}
