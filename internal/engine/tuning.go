package engine

import "github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"

// Tuning holds the combat constants. Values are loaded from the server
// config file; the defaults here match the shipped arena_config.json.
type Tuning struct {
	ForceFactor    float64 `json:"force_factor"`
	FocusFactor    float64 `json:"focus_factor"`
	ElementBonus   float64 `json:"element_bonus"`
	GuardReduction float64 `json:"guard_reduction"`
	AttackCost     int     `json:"attack_cost"`
	MagicCost      int     `json:"magic_cost"`
	DodgeCost      int     `json:"dodge_cost"`
	DefendCost     int     `json:"defend_cost"`
}

// DefaultTuning returns the baseline combat constants.
func DefaultTuning() Tuning {
	return Tuning{
		ForceFactor:    1.0,
		FocusFactor:    1.0,
		ElementBonus:   1.25,
		GuardReduction: 0.5,
		AttackCost:     0,
		MagicCost:      4,
		DodgeCost:      3,
		DefendCost:     2,
	}
}

// ActionCost returns the energy cost of an action under this tuning. Ability
// costs live on the ability itself.
func (t Tuning) ActionCost(a Action) int {
	switch a.Type {
	case game.ActionMagic:
		return t.MagicCost
	case game.ActionDodge:
		return t.DodgeCost
	case game.ActionDefend:
		return t.DefendCost
	case game.ActionAbility:
		if a.Ability != nil {
			return a.Ability.EnergyCost
		}
		return t.AttackCost
	default:
		return t.AttackCost
	}
}
