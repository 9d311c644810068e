package engine

import (
	"fmt"
	"math"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

// Action is a player's chosen move for one turn. ContestRoll is the
// defender's opposed die for dodge checks; like Roll it is supplied by the
// caller so resolution stays deterministic. Forced marks a server-initiated
// turn (timer expiry): a forced action skips the energy gate and costs
// nothing, so an absent player always gets the default defend.
type Action struct {
	Type        game.ActionType
	Ability     *game.Ability
	ContestRoll int
	Forced      bool
}

// Result is the outcome of resolving a single turn. Attacker and Defender are
// updated copies; the inputs are never mutated.
type Result struct {
	Hit         bool
	Critical    bool
	Dodged      bool
	Damage      int
	Healed      int
	Action      Action
	Substituted bool
	Attacker    game.CombatSnapshot
	Defender    game.CombatSnapshot
	Logs        []string
}

// ResolveTurn computes the outcome of one action. It is a pure function of
// its inputs, including the die roll: it never touches global random state.
//
// Rules:
//   - natural 20 always crits and deals exactly double the non-critical damage
//   - otherwise a roll at or below the defender's defense value misses
//   - an action the attacker cannot afford is substituted by a basic attack
func ResolveTurn(t Tuning, attacker, defender game.CombatSnapshot, action Action, turn, roll int) Result {
	// Clone severs the slice aliasing a struct copy leaves behind, so effect
	// ticking and cooldown writes never reach the caller's inputs.
	res := Result{Action: action, Attacker: attacker.Clone(), Defender: defender.Clone()}
	atk := &res.Attacker
	def := &res.Defender

	// Effects granted on a previous turn have covered one full exchange once
	// the owner acts again; expire them before resolving.
	tickEffects(atk)

	// Energy gate: fall back to the cheapest action instead of erroring.
	if !action.Forced && atk.Energy < t.ActionCost(action) {
		res.Substituted = true
		res.Action = Action{Type: game.ActionAttack}
		res.log("%s lacks energy for %s and falls back to a basic attack", atk.Name, action.Type)
	}
	act := res.Action

	if act.Type == game.ActionAbility && act.Ability == nil {
		act.Type = game.ActionAttack
		res.Action = act
	}

	switch act.Type {
	case game.ActionDefend:
		atk.RemoveEffect(game.EffectGuard)
		atk.Effects = append(atk.Effects, game.ActiveEffect{Kind: game.EffectGuard, Magnitude: t.GuardReduction, TurnsLeft: 1})
		res.Hit = true
		res.log("%s braces for the next hit (damage reduced %d%%)", atk.Name, int(t.GuardReduction*100))

	case game.ActionDodge:
		// Opposed agility check against the defender's contest roll.
		if roll+atk.Agility > action.ContestRoll+def.Agility {
			atk.RemoveEffect(game.EffectDodge)
			atk.Effects = append(atk.Effects, game.ActiveEffect{Kind: game.EffectDodge, Magnitude: 1, TurnsLeft: 1})
			res.Hit = true
			res.log("%s rolls %d vs %d and slips into a dodging stance", atk.Name, roll, action.ContestRoll)
		} else {
			res.log("%s rolls %d vs %d and fails to find an opening", atk.Name, roll, action.ContestRoll)
		}

	case game.ActionAbility:
		ab := act.Ability
		if ab.Kind == game.AbilityHeal {
			res.Healed = ab.Power
			atk.HP += ab.Power
			res.Hit = true
			res.log("%s channels %s and recovers %d HP", atk.Name, ab.Name, ab.Power)
		} else {
			res.resolveStrike(t, atk, def, act, roll)
		}
		startCooldown(atk, ab.Key, turn)

	default: // attack, magic
		res.resolveStrike(t, atk, def, act, roll)
	}

	if !act.Forced {
		atk.Energy -= t.ActionCost(act)
	}
	atk.ClampVitals()
	def.ClampVitals()
	return res
}

// resolveStrike handles every damaging action: hit check, critical check,
// damage formula, and the defender's dodge/guard effects.
func (res *Result) resolveStrike(t Tuning, atk, def *game.CombatSnapshot, act Action, roll int) {
	defense := def.Resistance
	base := baseDamage(t, atk, def, act)

	if roll == NaturalMax {
		res.Hit = true
		res.Critical = true
		res.Damage = base * 2
	} else if roll <= defense {
		res.log("%s rolls %d against defense %d and misses", atk.Name, roll, defense)
		return
	} else {
		res.Hit = true
		res.Damage = base
	}

	// A standing dodge negates the hit entirely and is consumed.
	if dodge := def.Effect(game.EffectDodge); dodge != nil {
		def.RemoveEffect(game.EffectDodge)
		res.Dodged = true
		res.Damage = 0
		res.log("%s rolls %d but %s dodges the blow", atk.Name, roll, def.Name)
		return
	}

	// Guard reduces the next hit received and is consumed by it.
	if guard := def.Effect(game.EffectGuard); guard != nil {
		reduced := int(math.Floor(float64(res.Damage) * (1 - guard.Magnitude)))
		def.RemoveEffect(game.EffectGuard)
		res.log("%s's guard absorbs %d damage", def.Name, res.Damage-reduced)
		res.Damage = reduced
	}

	def.HP -= res.Damage
	if res.Critical {
		res.log("%s rolls a natural %d: CRITICAL %s for %d damage", atk.Name, roll, act.Type, res.Damage)
	} else {
		res.log("%s rolls %d and hits with %s for %d damage", atk.Name, roll, act.Type, res.Damage)
	}
}

// baseDamage is the non-critical damage formula for a damaging action.
func baseDamage(t Tuning, atk, def *game.CombatSnapshot, act Action) int {
	switch act.Type {
	case game.ActionMagic:
		return int(math.Floor(float64(atk.Focus) * t.FocusFactor))
	case game.ActionAbility:
		dmg := float64(act.Ability.Power)
		if act.Ability.Element != game.ElementNone && act.Ability.Element.HasAdvantageOver(def.Element) {
			dmg *= t.ElementBonus
		}
		return int(math.Floor(dmg))
	default:
		return int(math.Floor(float64(atk.Force) * t.ForceFactor))
	}
}

// ExpectedDamage estimates the non-critical damage of an action, used by the
// computer opponent to rank options. It mirrors baseDamage without mutating
// anything.
func ExpectedDamage(t Tuning, atk, def *game.CombatSnapshot, act Action) int {
	return baseDamage(t, atk, def, act)
}

// AbilityUsable reports whether the snapshot can pay for and has recharged
// the given ability at the given turn.
func AbilityUsable(s *game.CombatSnapshot, st game.AbilityState, turn int) bool {
	return s.Energy >= st.EnergyCost && turn >= st.ReadyAtTurn
}

func startCooldown(s *game.CombatSnapshot, key string, turn int) {
	for i := range s.Abilities {
		if s.Abilities[i].Key == key {
			s.Abilities[i].ReadyAtTurn = turn + s.Abilities[i].Cooldown
			return
		}
	}
}

// tickEffects expires timed effects at the start of the owner's turn: an
// effect granted last turn has protected the owner through exactly one enemy
// action by then.
func tickEffects(s *game.CombatSnapshot) {
	out := s.Effects[:0]
	for _, e := range s.Effects {
		e.TurnsLeft--
		if e.TurnsLeft > 0 {
			out = append(out, e)
		}
	}
	s.Effects = out
}

func (res *Result) log(format string, args ...interface{}) {
	res.Logs = append(res.Logs, fmt.Sprintf(format, args...))
}
