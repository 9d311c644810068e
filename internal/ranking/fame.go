package ranking

// Fame adjustment constants. The base swing sits in the 20-25 band; upsets
// (a lower-fame player beating a higher-fame one) earn a gap-proportional
// bonus, favourites earn less, and every adjustment floors at minGain.
const (
	baseGain = 22
	baseLoss = 20

	gapBonusDivisor = 20
	gapBonusCap     = 15

	minGain = 5
	minLoss = 5

	// SeasonBaseline is the fame every live record resets to at rollover.
	SeasonBaseline = 1000
)

// CalculateGain returns the fame a winner earns given both players'
// pre-battle fame.
func CalculateGain(winnerFame, loserFame int) int {
	gain := baseGain
	switch {
	case winnerFame < loserFame: // upset
		gain += upsetBonus(loserFame - winnerFame)
	case winnerFame > loserFame: // expected result
		gain -= favouriteCut(winnerFame - loserFame)
	}
	if gain < minGain {
		gain = minGain
	}
	return gain
}

// CalculateLoss returns the fame a loser forfeits, symmetric to
// CalculateGain: losing to a weaker player costs more, losing to a stronger
// one costs less.
func CalculateLoss(winnerFame, loserFame int) int {
	loss := baseLoss
	switch {
	case winnerFame < loserFame: // lost to an underdog
		loss += upsetBonus(loserFame - winnerFame)
	case winnerFame > loserFame:
		loss -= favouriteCut(winnerFame - loserFame)
	}
	if loss < minLoss {
		loss = minLoss
	}
	return loss
}

// ApplyDelta adds a (possibly negative) delta to fame, clamped at 0.
func ApplyDelta(fame, delta int) int {
	fame += delta
	if fame < 0 {
		fame = 0
	}
	return fame
}

// upsetBonus is the extra swing earned on an upset. Rounding up means any
// positive gap earns at least 1, so a lower-fame winner always beats the
// equal-fame payout; the cap keeps a huge mismatch from doubling the base.
func upsetBonus(gap int) int {
	bonus := (gap + gapBonusDivisor - 1) / gapBonusDivisor
	if bonus > gapBonusCap {
		bonus = gapBonusCap
	}
	return bonus
}

// favouriteCut is the reduction applied when the stronger side wins. It is
// uncapped and scales with the full gap; the floor on the final value is the
// only lower bound.
func favouriteCut(gap int) int {
	return (gap + gapBonusDivisor - 1) / gapBonusDivisor
}
