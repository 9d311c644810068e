package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

func fighter(name string) game.CombatSnapshot {
	return game.CombatSnapshot{
		Name:       name,
		HP:         100,
		HPMax:      100,
		Energy:     20,
		EnergyMax:  20,
		Force:      10,
		Agility:    5,
		Resistance: 10,
		Focus:      8,
	}
}

func TestResolveTurn_CriticalIsExactlyDoubleNonCrit(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	def := fighter("def")

	normal := ResolveTurn(tu, atk, def, Action{Type: game.ActionAttack}, 1, 15)
	require.True(t, normal.Hit)
	require.False(t, normal.Critical)

	crit := ResolveTurn(tu, atk, def, Action{Type: game.ActionAttack}, 1, NaturalMax)
	require.True(t, crit.Hit)
	require.True(t, crit.Critical)
	assert.Equal(t, normal.Damage*2, crit.Damage)
	assert.Equal(t, 100-crit.Damage, crit.Defender.HP)
}

func TestResolveTurn_CriticalOverridesDefense(t *testing.T) {
	tu := DefaultTuning()
	def := fighter("def")
	def.Resistance = 20 // would absorb any normal roll

	res := ResolveTurn(tu, fighter("atk"), def, Action{Type: game.ActionAttack}, 1, NaturalMax)
	require.True(t, res.Hit)
	assert.True(t, res.Critical)
	assert.Equal(t, 20, res.Damage)
}

func TestResolveTurn_RollAtOrBelowDefenseMisses(t *testing.T) {
	tu := DefaultTuning()
	res := ResolveTurn(tu, fighter("atk"), fighter("def"), Action{Type: game.ActionAttack}, 1, 10)
	assert.False(t, res.Hit)
	assert.Zero(t, res.Damage)
	assert.Equal(t, 100, res.Defender.HP)
}

func TestResolveTurn_EnergyShortfallSubstitutesBasicAttack(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	atk.Energy = 1 // below magic cost

	res := ResolveTurn(tu, atk, fighter("def"), Action{Type: game.ActionMagic}, 1, 15)
	require.True(t, res.Substituted)
	assert.Equal(t, game.ActionAttack, res.Action.Type)
	require.True(t, res.Hit)
	assert.Equal(t, 10, res.Damage) // force-based, not focus-based
	assert.Equal(t, 1, res.Attacker.Energy)
}

func TestResolveTurn_DodgeNegatesNextHitAndIsConsumed(t *testing.T) {
	tu := DefaultTuning()
	def := fighter("def")
	def.Effects = []game.ActiveEffect{{Kind: game.EffectDodge, Magnitude: 1, TurnsLeft: 1}}

	res := ResolveTurn(tu, fighter("atk"), def, Action{Type: game.ActionAttack}, 1, 15)
	assert.True(t, res.Dodged)
	assert.Zero(t, res.Damage)
	assert.Equal(t, 100, res.Defender.HP)
	assert.Nil(t, res.Defender.Effect(game.EffectDodge))
}

func TestResolveTurn_GuardHalvesDamageAndIsConsumed(t *testing.T) {
	tu := DefaultTuning()
	def := fighter("def")
	def.Effects = []game.ActiveEffect{{Kind: game.EffectGuard, Magnitude: tu.GuardReduction, TurnsLeft: 1}}

	res := ResolveTurn(tu, fighter("atk"), def, Action{Type: game.ActionAttack}, 1, 15)
	require.True(t, res.Hit)
	assert.Equal(t, 5, res.Damage)
	assert.Equal(t, 95, res.Defender.HP)
	assert.Nil(t, res.Defender.Effect(game.EffectGuard))
}

func TestResolveTurn_DodgeContestGrantsEffectOnlyOnWin(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	atk.Agility = 10
	def := fighter("def")
	def.Agility = 2

	win := ResolveTurn(tu, atk, def, Action{Type: game.ActionDodge, ContestRoll: 8}, 1, 12)
	assert.NotNil(t, win.Attacker.Effect(game.EffectDodge))

	lose := ResolveTurn(tu, def, atk, Action{Type: game.ActionDodge, ContestRoll: 12}, 1, 8)
	assert.Nil(t, lose.Attacker.Effect(game.EffectDodge))
	// Energy is spent on the attempt either way.
	assert.Equal(t, 20-tu.DodgeCost, lose.Attacker.Energy)
}

func TestResolveTurn_HealClampsAtMaxAndStartsCooldown(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	atk.HP = 95
	heal := game.Ability{Key: "mend", Name: "Mend", Kind: game.AbilityHeal, Power: 20, EnergyCost: 5, Cooldown: 3}
	atk.Abilities = []game.AbilityState{{Ability: heal}}

	res := ResolveTurn(tu, atk, fighter("def"), Action{Type: game.ActionAbility, Ability: &heal}, 2, 7)
	assert.Equal(t, 100, res.Attacker.HP)
	assert.Equal(t, 20, res.Healed)
	assert.Equal(t, 5, res.Attacker.Abilities[0].ReadyAtTurn)
	assert.False(t, AbilityUsable(&res.Attacker, res.Attacker.Abilities[0], 4))
	assert.True(t, AbilityUsable(&res.Attacker, res.Attacker.Abilities[0], 5))
}

func TestResolveTurn_ElementAdvantageBoostsAbilityDamage(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	def := fighter("def")
	def.Element = game.ElementEarth
	burn := game.Ability{Key: "burn", Name: "Burn", Kind: game.AbilityDamage, Element: game.ElementFire, Power: 16, EnergyCost: 6}
	atk.Abilities = []game.AbilityState{{Ability: burn}}

	res := ResolveTurn(tu, atk, def, Action{Type: game.ActionAbility, Ability: &burn}, 1, 15)
	require.True(t, res.Hit)
	assert.Equal(t, 20, res.Damage) // floor(16 * 1.25)
}

func TestResolveTurn_EffectsExpireAtStartOfOwnersNextTurn(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	atk.Effects = []game.ActiveEffect{{Kind: game.EffectGuard, Magnitude: 0.5, TurnsLeft: 1}}

	res := ResolveTurn(tu, atk, fighter("def"), Action{Type: game.ActionAttack}, 3, 15)
	assert.Nil(t, res.Attacker.Effect(game.EffectGuard))
}

func TestResolveTurn_DamageNeverDropsHPBelowZero(t *testing.T) {
	tu := DefaultTuning()
	def := fighter("def")
	def.HP = 3

	res := ResolveTurn(tu, fighter("atk"), def, Action{Type: game.ActionAttack}, 1, NaturalMax)
	assert.Equal(t, 0, res.Defender.HP)
}

func TestResolveTurn_InputsNotMutated(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	def := fighter("def")
	_ = ResolveTurn(tu, atk, def, Action{Type: game.ActionAttack}, 1, NaturalMax)
	assert.Equal(t, 100, def.HP)
	assert.Equal(t, 20, atk.Energy)
}

func TestResolveTurn_InputSlicesNotMutated(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	atk.Effects = []game.ActiveEffect{{Kind: game.EffectGuard, Magnitude: 0.5, TurnsLeft: 2}}
	heal := game.Ability{Key: "mend", Name: "Mend", Kind: game.AbilityHeal, Power: 5, EnergyCost: 5, Cooldown: 3}
	atk.Abilities = []game.AbilityState{{Ability: heal}}

	_ = ResolveTurn(tu, atk, fighter("def"), Action{Type: game.ActionAbility, Ability: &heal}, 2, 7)
	// Effect ticking and cooldown starts must land on the result's copies,
	// never through the shared backing arrays of the inputs.
	assert.Equal(t, 2, atk.Effects[0].TurnsLeft)
	assert.Zero(t, atk.Abilities[0].ReadyAtTurn)
}

func TestResolveTurn_ForcedDefendIgnoresEnergyGate(t *testing.T) {
	tu := DefaultTuning()
	atk := fighter("atk")
	atk.Energy = 0

	res := ResolveTurn(tu, atk, fighter("def"), Action{Type: game.ActionDefend, Forced: true}, 1, 10)
	assert.False(t, res.Substituted)
	assert.Equal(t, game.ActionDefend, res.Action.Type)
	assert.NotNil(t, res.Attacker.Effect(game.EffectGuard))
	assert.Zero(t, res.Attacker.Energy)
}

func TestRollD20_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		roll := RollD20(rng)
		require.GreaterOrEqual(t, roll, 1)
		require.LessOrEqual(t, roll, 20)
	}
}
