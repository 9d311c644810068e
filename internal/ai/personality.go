package ai

import "time"

// ActionWeights is a personality's base preference distribution over action
// families. Weights need not sum to 1; they are normalized when sampled.
type ActionWeights struct {
	Attack  float64 `json:"attack"`
	Magic   float64 `json:"magic"`
	Ability float64 `json:"ability"`
	Defend  float64 `json:"defend"`
	Heal    float64 `json:"heal"`
}

// Personality is pure data consumed by the generic Decide function. New
// opponents are added by adding entries to the config file, not code.
type Personality struct {
	Name string `json:"name"`

	Weights ActionWeights `json:"weights"`

	// EmergencyHPThreshold is the own-HP fraction below which the emergency
	// rule (heal, else maybe defend) preempts everything else.
	EmergencyHPThreshold float64 `json:"emergency_hp_threshold"`
	// EmergencyDefendChance applies when no heal is usable in an emergency.
	EmergencyDefendChance float64 `json:"emergency_defend_chance"`

	// RetreatHPThreshold is the lower own-HP fraction below which the
	// independent flee/surrender check activates.
	RetreatHPThreshold float64 `json:"retreat_hp_threshold"`
	RetreatChance      float64 `json:"retreat_chance"`

	FinishingBlow   bool `json:"finishing_blow"`
	EconomizeEnergy bool `json:"economize_energy"`
	Randomize       bool `json:"randomize"`
	ExploitElement  bool `json:"exploit_element"`

	// JitterScale sizes the random noise added to ability scores when
	// Randomize is set.
	JitterScale float64 `json:"jitter_scale"`

	ThinkDelayMinMs int `json:"think_delay_min_ms"`
	ThinkDelayMaxMs int `json:"think_delay_max_ms"`
}

// ThinkDelayBounds returns the pacing delay range as durations.
func (p Personality) ThinkDelayBounds() (time.Duration, time.Duration) {
	return time.Duration(p.ThinkDelayMinMs) * time.Millisecond,
		time.Duration(p.ThinkDelayMaxMs) * time.Millisecond
}

// DefaultPersonalities is the shipped opponent roster, used when the config
// file does not override it.
func DefaultPersonalities() []Personality {
	return []Personality{
		{
			Name:                  "berserker",
			Weights:               ActionWeights{Attack: 0.5, Magic: 0.1, Ability: 0.3, Defend: 0.05, Heal: 0.05},
			EmergencyHPThreshold:  0.15,
			EmergencyDefendChance: 0.2,
			RetreatHPThreshold:    0.05,
			RetreatChance:         0.05,
			FinishingBlow:         true,
			Randomize:             true,
			JitterScale:           3,
			ThinkDelayMinMs:       400,
			ThinkDelayMaxMs:       1200,
		},
		{
			Name:                  "guardian",
			Weights:               ActionWeights{Attack: 0.25, Magic: 0.1, Ability: 0.2, Defend: 0.3, Heal: 0.15},
			EmergencyHPThreshold:  0.35,
			EmergencyDefendChance: 0.8,
			RetreatHPThreshold:    0.1,
			RetreatChance:         0.3,
			EconomizeEnergy:       true,
			JitterScale:           1,
			ThinkDelayMinMs:       800,
			ThinkDelayMaxMs:       2000,
		},
		{
			Name:                  "tactician",
			Weights:               ActionWeights{Attack: 0.2, Magic: 0.25, Ability: 0.35, Defend: 0.1, Heal: 0.1},
			EmergencyHPThreshold:  0.25,
			EmergencyDefendChance: 0.5,
			RetreatHPThreshold:    0.08,
			RetreatChance:         0.2,
			FinishingBlow:         true,
			EconomizeEnergy:       true,
			ExploitElement:        true,
			Randomize:             true,
			JitterScale:           2,
			ThinkDelayMinMs:       600,
			ThinkDelayMaxMs:       1800,
		},
	}
}
