package ranking

// Tier is one ranking bracket: a half-open fame range [MinFame, next.MinFame)
// carrying a seasonal reward multiplier. The highest tier is unbounded above.
type Tier struct {
	Name       string  `json:"name"`
	MinFame    int     `json:"min_fame"`
	Multiplier float64 `json:"multiplier"`
}

// TierTable is an ordered, non-overlapping set of tiers. The first tier must
// start at 0 so every non-negative fame value maps to exactly one tier.
type TierTable []Tier

// DefaultTiers returns the shipped bracket layout, overridable via config.
func DefaultTiers() TierTable {
	return TierTable{
		{Name: "bronze", MinFame: 0, Multiplier: 1.0},
		{Name: "silver", MinFame: 800, Multiplier: 1.25},
		{Name: "gold", MinFame: 1200, Multiplier: 1.5},
		{Name: "diamond", MinFame: 1600, Multiplier: 2.0},
		{Name: "legend", MinFame: 2200, Multiplier: 3.0},
	}
}

// TierOf returns the single tier containing the given fame value. Negative
// fame is treated as 0, so the mapping is total.
func (tt TierTable) TierOf(fame int) Tier {
	if fame < 0 {
		fame = 0
	}
	out := tt[0]
	for _, t := range tt {
		if fame >= t.MinFame {
			out = t
		}
	}
	return out
}

// Valid reports whether the table is ordered, starts at 0 and has no
// duplicate boundaries.
func (tt TierTable) Valid() bool {
	if len(tt) == 0 || tt[0].MinFame != 0 {
		return false
	}
	for i := 1; i < len(tt); i++ {
		if tt[i].MinFame <= tt[i-1].MinFame {
			return false
		}
	}
	return true
}
