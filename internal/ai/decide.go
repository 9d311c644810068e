package ai

import (
	"math/rand"
	"time"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/engine"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

// Thresholds for the finishing-blow rule: when the opponent is nearly down
// and we are healthy enough, go for the kill.
const (
	finishOpponentHP = 0.25
	finishOwnHP      = 0.30
	lowEnergy        = 0.30
)

// Decide picks the computer opponent's next action. The algorithm is uniform
// across personalities; everything personality-specific is data on p.
//
// Priority order, each rule short-circuiting the next:
//  1. own HP below the emergency threshold: heal if possible, else maybe defend
//  2. opponent nearly down and own HP fine: highest-damage usable option
//  3. sample an action family from the personality weights (energy aware),
//     scoring abilities when that family wins the draw
func Decide(t engine.Tuning, own, opp *game.CombatSnapshot, p Personality, turn int, rng *rand.Rand) engine.Action {
	// Rule 1: emergency.
	if own.HPFraction() < p.EmergencyHPThreshold {
		if heal := bestHeal(own, turn); heal != nil {
			return engine.Action{Type: game.ActionAbility, Ability: heal}
		}
		if own.Energy >= t.DefendCost && rng.Float64() < p.EmergencyDefendChance {
			return engine.Action{Type: game.ActionDefend}
		}
	}

	// Rule 2: finish.
	finishAt := finishOpponentHP
	if p.FinishingBlow {
		finishAt = 0.35
	}
	if opp.HPFraction() < finishAt && own.HPFraction() > finishOwnHP {
		return bestDamage(t, own, opp, p, turn)
	}

	// Rule 3: weighted sample.
	switch sampleFamily(t, own, p, turn, rng) {
	case famMagic:
		return engine.Action{Type: game.ActionMagic}
	case famDefend:
		return engine.Action{Type: game.ActionDefend}
	case famHeal:
		if heal := bestHeal(own, turn); heal != nil {
			return engine.Action{Type: game.ActionAbility, Ability: heal}
		}
		return engine.Action{Type: game.ActionAttack}
	case famAbility:
		if ab := bestAbility(t, own, opp, p, turn, rng); ab != nil {
			return engine.Action{Type: game.ActionAbility, Ability: ab}
		}
		return engine.Action{Type: game.ActionAttack}
	default:
		return engine.Action{Type: game.ActionAttack}
	}
}

type family int

const (
	famAttack family = iota
	famMagic
	famAbility
	famDefend
	famHeal
)

// ShouldRetreat is the independent flee/surrender check. It never overrides a
// finishing-blow situation: an AI smelling blood does not run.
func ShouldRetreat(own, opp *game.CombatSnapshot, p Personality, rng *rand.Rand) bool {
	if opp.HPFraction() < finishOpponentHP && own.HPFraction() > finishOwnHP {
		return false
	}
	return own.HPFraction() < p.RetreatHPThreshold && rng.Float64() < p.RetreatChance
}

// ThinkingDelay draws an artificial pacing delay from the personality's
// range. It affects timing only, never the decision.
func ThinkingDelay(p Personality, rng *rand.Rand) time.Duration {
	lo, hi := p.ThinkDelayBounds()
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int63n(int64(hi-lo)))
}

// sampleFamily draws an action family from the personality weights, shifting
// probability mass toward the basic attack when energy runs low.
func sampleFamily(t engine.Tuning, own *game.CombatSnapshot, p Personality, turn int, rng *rand.Rand) family {
	w := p.Weights
	if own.EnergyFraction() < lowEnergy {
		scale := own.EnergyFraction() / lowEnergy
		w.Magic *= scale
		w.Ability *= scale
		w.Heal *= scale
		w.Attack += (1 - scale)
	}
	// Unaffordable or unavailable families get no mass at all.
	if own.Energy < t.MagicCost {
		w.Magic = 0
	}
	if own.Energy < t.DefendCost {
		w.Defend = 0
	}
	if bestHeal(own, turn) == nil {
		w.Heal = 0
	}

	total := w.Attack + w.Magic + w.Ability + w.Defend + w.Heal
	if total <= 0 {
		return famAttack
	}
	r := rng.Float64() * total
	switch {
	case r < w.Attack:
		return famAttack
	case r < w.Attack+w.Magic:
		return famMagic
	case r < w.Attack+w.Magic+w.Ability:
		return famAbility
	case r < w.Attack+w.Magic+w.Ability+w.Defend:
		return famDefend
	default:
		return famHeal
	}
}

// bestHeal returns the strongest usable heal ability, or nil.
func bestHeal(own *game.CombatSnapshot, turn int) *game.Ability {
	var best *game.Ability
	for i := range own.Abilities {
		st := own.Abilities[i]
		if st.Kind != game.AbilityHeal || !engine.AbilityUsable(own, st, turn) {
			continue
		}
		if best == nil || st.Power > best.Power {
			best = &own.Abilities[i].Ability
		}
	}
	return best
}

// bestDamage returns the highest-expected-damage usable option, including the
// basic attack and magic as floors.
func bestDamage(t engine.Tuning, own, opp *game.CombatSnapshot, p Personality, turn int) engine.Action {
	best := engine.Action{Type: game.ActionAttack}
	bestDmg := engine.ExpectedDamage(t, own, opp, best)

	if own.Energy >= t.MagicCost {
		magic := engine.Action{Type: game.ActionMagic}
		if d := engine.ExpectedDamage(t, own, opp, magic); d > bestDmg {
			best, bestDmg = magic, d
		}
	}
	for i := range own.Abilities {
		st := own.Abilities[i]
		if st.Kind != game.AbilityDamage || !engine.AbilityUsable(own, st, turn) {
			continue
		}
		act := engine.Action{Type: game.ActionAbility, Ability: &own.Abilities[i].Ability}
		if d := engine.ExpectedDamage(t, own, opp, act); d > bestDmg {
			best, bestDmg = act, d
		}
	}
	return best
}

// bestAbility scores every usable damaging ability and returns the winner,
// or nil when none is usable.
func bestAbility(t engine.Tuning, own, opp *game.CombatSnapshot, p Personality, turn int, rng *rand.Rand) *game.Ability {
	var best *game.Ability
	bestScore := 0.0
	for i := range own.Abilities {
		st := own.Abilities[i]
		if st.Kind != game.AbilityDamage || !engine.AbilityUsable(own, st, turn) {
			continue
		}
		score := float64(st.Power)
		if p.ExploitElement && st.Element != game.ElementNone && st.Element.HasAdvantageOver(opp.Element) {
			score *= t.ElementBonus
		}
		if p.EconomizeEnergy {
			score -= float64(st.EnergyCost) * 0.5
		}
		if p.Randomize && p.JitterScale > 0 {
			score += (rng.Float64()*2 - 1) * p.JitterScale
		}
		if best == nil || score > bestScore {
			best = &own.Abilities[i].Ability
			bestScore = score
		}
	}
	return best
}
