package game

// ActionType is a string alias representing a combat action. Using a
// dedicated type instead of plain string makes code safer and self-documenting.
type ActionType string

const (
	ActionNone    ActionType = ""
	ActionAttack  ActionType = "attack"
	ActionMagic   ActionType = "magic"
	ActionDefend  ActionType = "defend"
	ActionDodge   ActionType = "dodge"
	ActionAbility ActionType = "ability"
)

// Element tags avatars and abilities for the advantage cycle
// fire > earth > air > water > fire. Light and shadow counter each other.
type Element string

const (
	ElementNone   Element = ""
	ElementFire   Element = "fire"
	ElementWater  Element = "water"
	ElementEarth  Element = "earth"
	ElementAir    Element = "air"
	ElementLight  Element = "light"
	ElementShadow Element = "shadow"
)

var elementAdvantage = map[Element]Element{
	ElementFire:   ElementEarth,
	ElementEarth:  ElementAir,
	ElementAir:    ElementWater,
	ElementWater:  ElementFire,
	ElementLight:  ElementShadow,
	ElementShadow: ElementLight,
}

// HasAdvantageOver reports whether e is strong against other.
func (e Element) HasAdvantageOver(other Element) bool {
	return elementAdvantage[e] == other
}

// AbilityKind distinguishes damaging abilities from restorative ones.
type AbilityKind string

const (
	AbilityDamage AbilityKind = "damage"
	AbilityHeal   AbilityKind = "heal"
)

// Ability is a special move carried by an avatar. Abilities are data owned by
// the (external) avatar system; the battle subsystem only consumes them.
type Ability struct {
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	Kind       AbilityKind `json:"kind"`
	Element    Element     `json:"element"`
	Power      int         `json:"power"`
	EnergyCost int         `json:"energy_cost"`
	Cooldown   int         `json:"cooldown"`
}

// AbilityState is an ability plus its per-battle cooldown bookkeeping.
// ReadyAtTurn is the first turn index at which the ability may be used again.
type AbilityState struct {
	Ability
	ReadyAtTurn int `json:"ready_at_turn"`
}

// EffectKind identifies a timed buff/debuff on a combat snapshot.
type EffectKind string

const (
	EffectGuard EffectKind = "guard" // incoming damage multiplied down
	EffectDodge EffectKind = "dodge" // next incoming attack negated
)

// ActiveEffect is a buff/debuff with a remaining-duration counter measured in
// the owner's turns.
type ActiveEffect struct {
	Kind      EffectKind `json:"kind"`
	Magnitude float64    `json:"magnitude"`
	TurnsLeft int        `json:"turns_left"`
}

// CombatSnapshot is the per-side combat state embedded in a battle room.
// HP and energy are always clamped to [0, max].
type CombatSnapshot struct {
	AvatarID   string         `json:"avatar_id"`
	Name       string         `json:"name"`
	Level      int            `json:"level"`
	Element    Element        `json:"element"`
	HP         int            `json:"hp"`
	HPMax      int            `json:"hp_max"`
	Energy     int            `json:"energy"`
	EnergyMax  int            `json:"energy_max"`
	Force      int            `json:"force"`
	Agility    int            `json:"agility"`
	Resistance int            `json:"resistance"`
	Focus      int            `json:"focus"`
	Abilities  []AbilityState `json:"abilities"`
	Effects    []ActiveEffect `json:"effects"`
}

// HPFraction returns current HP as a fraction of max (0 when max is 0).
func (s *CombatSnapshot) HPFraction() float64 {
	if s.HPMax <= 0 {
		return 0
	}
	return float64(s.HP) / float64(s.HPMax)
}

// EnergyFraction returns current energy as a fraction of max.
func (s *CombatSnapshot) EnergyFraction() float64 {
	if s.EnergyMax <= 0 {
		return 0
	}
	return float64(s.Energy) / float64(s.EnergyMax)
}

// ClampVitals forces HP and energy back into [0, max].
func (s *CombatSnapshot) ClampVitals() {
	if s.HP < 0 {
		s.HP = 0
	}
	if s.HP > s.HPMax {
		s.HP = s.HPMax
	}
	if s.Energy < 0 {
		s.Energy = 0
	}
	if s.Energy > s.EnergyMax {
		s.Energy = s.EnergyMax
	}
}

// Clone returns a copy whose Abilities and Effects slices own their backing
// arrays. A plain struct copy still aliases both slices with the receiver.
func (s CombatSnapshot) Clone() CombatSnapshot {
	s.Abilities = append([]AbilityState(nil), s.Abilities...)
	s.Effects = append([]ActiveEffect(nil), s.Effects...)
	return s
}

// Effect returns the active effect of the given kind, or nil.
func (s *CombatSnapshot) Effect(kind EffectKind) *ActiveEffect {
	for i := range s.Effects {
		if s.Effects[i].Kind == kind {
			return &s.Effects[i]
		}
	}
	return nil
}

// RemoveEffect deletes all effects of the given kind.
func (s *CombatSnapshot) RemoveEffect(kind EffectKind) {
	out := s.Effects[:0]
	for _, e := range s.Effects {
		if e.Kind != kind {
			out = append(out, e)
		}
	}
	s.Effects = out
}

// AvatarSheet is the read contract with the external avatar system: the
// stats a battle needs, supplied when a challenge is created or accepted.
type AvatarSheet struct {
	AvatarID   string    `json:"avatar_id"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	Element    Element   `json:"element"`
	HP         int       `json:"hp"`
	Energy     int       `json:"energy"`
	Force      int       `json:"force"`
	Agility    int       `json:"agility"`
	Resistance int       `json:"resistance"`
	Focus      int       `json:"focus"`
	Abilities  []Ability `json:"abilities"`
}

// NewSnapshot builds the initial combat snapshot for a sheet.
func (a AvatarSheet) NewSnapshot() CombatSnapshot {
	abilities := make([]AbilityState, 0, len(a.Abilities))
	for _, ab := range a.Abilities {
		abilities = append(abilities, AbilityState{Ability: ab})
	}
	return CombatSnapshot{
		AvatarID:   a.AvatarID,
		Name:       a.Name,
		Level:      a.Level,
		Element:    a.Element,
		HP:         a.HP,
		HPMax:      a.HP,
		Energy:     a.Energy,
		EnergyMax:  a.Energy,
		Force:      a.Force,
		Agility:    a.Agility,
		Resistance: a.Resistance,
		Focus:      a.Focus,
		Abilities:  abilities,
	}
}
