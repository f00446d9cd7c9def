package league

import "math"

const defaultElevatedMultiplier = 2.0

// HasPurse reports whether any prize pool is configured. Leagues without a
// purse award zero everywhere; callers never need to nil-check Purse.
func (l League) HasPurse() bool {
	if l.Purse == nil {
		return false
	}
	return l.Purse.SeasonPoolCents > 0 || l.Purse.WeeklyPoolCents > 0 || l.Purse.ElevatedPoolCents > 0
}

func (l League) IsElevatedWeek(week int) bool {
	for _, w := range l.ElevatedWeeks {
		if w == week {
			return true
		}
	}
	return false
}

// WeekMultiplier is the standings point multiplier for a week: the
// configured elevated multiplier on elevated weeks, 1 otherwise.
func (l League) WeekMultiplier(week int) float64 {
	if !l.IsElevatedWeek(week) {
		return 1
	}
	if l.PointMultiplier > 0 {
		return l.PointMultiplier
	}
	return defaultElevatedMultiplier
}

// WeeklyPrizeCents is the payout for one week: the weekly pool, plus the
// elevated pool when the week is elevated.
func (l League) WeeklyPrizeCents(week int) int64 {
	if !l.HasPurse() {
		return 0
	}
	prize := l.Purse.WeeklyPoolCents
	if l.IsElevatedWeek(week) {
		prize += l.Purse.ElevatedPoolCents
	}
	return prize
}

// SeasonPrizeCents is the championship payout, paid once at completion.
func (l League) SeasonPrizeCents() int64 {
	if !l.HasPurse() {
		return 0
	}
	return l.Purse.SeasonPoolCents
}

func (l League) PurseCurrency() string {
	if l.Purse == nil || l.Purse.Currency == "" {
		return "USD"
	}
	return l.Purse.Currency
}

// ScalePoints applies a week multiplier to a base point value.
func ScalePoints(base int, multiplier float64) int {
	if multiplier <= 0 {
		multiplier = 1
	}
	return int(math.Round(float64(base) * multiplier))
}
