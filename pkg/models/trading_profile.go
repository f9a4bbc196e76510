package models

import "time"

// ClockTime is a HH:MM wall-clock time in the exchange's local timezone.
type ClockTime struct {
	Hour   int
	Minute int
}

// Minutes returns the time of day as minutes since midnight, for range
// comparisons.
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// ParseClockTime parses an "HH:MM" string. Malformed input yields the zero
// time rather than an error, matching the source's tolerant config parsing.
func ParseClockTime(s string) ClockTime {
	if len(s) != 5 || s[2] != ':' {
		return ClockTime{}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return ClockTime{Hour: hour, Minute: minute}
}

// MarketHoursWindow is the regular trading session window.
type MarketHoursWindow struct {
	Start ClockTime
	End   ClockTime
}

// Contains reports whether the given local time of day falls within the
// window (inclusive of Start, exclusive of End).
func (w MarketHoursWindow) Contains(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= w.Start.Minutes() && minutes < w.End.Minutes()
}

// TradingPatternName identifies one of the named load multipliers.
type TradingPatternName string

const (
	PatternOpeningBell TradingPatternName = "opening_bell"
	PatternClosingBell TradingPatternName = "closing_bell"
	PatternLunch       TradingPatternName = "lunch"
	PatternMonthEnd    TradingPatternName = "month_end"
	PatternQuarterEnd  TradingPatternName = "quarter_end"
)

// TradingPatterns carries the configured multiplier for each named pattern.
type TradingPatterns struct {
	OpeningBellMultiplier float64 `mapstructure:"opening_bell_multiplier"`
	ClosingBellMultiplier float64 `mapstructure:"closing_bell_multiplier"`
	LunchMultiplier       float64 `mapstructure:"lunch_multiplier"`
	MonthEndMultiplier    float64 `mapstructure:"month_end_multiplier"`
	QuarterEndMultiplier  float64 `mapstructure:"quarter_end_multiplier"`
}

// Multiplier returns the configured multiplier for a pattern name.
func (p TradingPatterns) Multiplier(name TradingPatternName) float64 {
	switch name {
	case PatternOpeningBell:
		return p.OpeningBellMultiplier
	case PatternClosingBell:
		return p.ClosingBellMultiplier
	case PatternLunch:
		return p.LunchMultiplier
	case PatternMonthEnd:
		return p.MonthEndMultiplier
	case PatternQuarterEnd:
		return p.QuarterEndMultiplier
	default:
		return 1.0
	}
}

// ComplianceConfig carries the redundancy and rate-limit floors mandated by
// the compliance desk.
type ComplianceConfig struct {
	MinInstancesForRedundancy  int     `mapstructure:"min_instances_for_redundancy"`
	MaxScaleDownRatePct        float64 `mapstructure:"max_scale_down_rate_pct"`
	LargeScaleApprovalThreshold int    `mapstructure:"large_scale_approval_threshold"`
}

// TradingProfile is the domain configuration applied by the domain policy
// stage to every draft decision.
type TradingProfile struct {
	MarketHours MarketHoursWindow
	Patterns    TradingPatterns
	Compliance  ComplianceConfig
}

// MatchingPattern returns the first pattern (in strict precedence order)
// that applies to t, or "" if none do. Precedence: quarter_end > month_end >
// opening_bell > closing_bell > lunch, and is non-overlapping — once one
// matches, later ones are never checked.
func (p *TradingProfile) MatchingPattern(t time.Time) (TradingPatternName, bool) {
	if !p.MarketHours.Contains(t) {
		return "", false
	}

	isMonthEnd := t.Day() >= 25
	isQuarterEndMonth := t.Month() == time.March || t.Month() == time.June ||
		t.Month() == time.September || t.Month() == time.December

	switch {
	case isMonthEnd && isQuarterEndMonth:
		return PatternQuarterEnd, true
	case isMonthEnd:
		return PatternMonthEnd, true
	}

	openingBell := MarketHoursWindow{Start: ClockTime{9, 0}, End: ClockTime{9, 30}}
	if openingBell.Contains(t) {
		return PatternOpeningBell, true
	}

	closingBell := MarketHoursWindow{Start: ClockTime{15, 30}, End: ClockTime{16, 0}}
	if closingBell.Contains(t) {
		return PatternClosingBell, true
	}

	lunch := MarketHoursWindow{Start: ClockTime{12, 0}, End: ClockTime{13, 0}}
	if lunch.Contains(t) {
		return PatternLunch, true
	}

	return "", false
}
