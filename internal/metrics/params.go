package metrics

import "github.com/andresuchdata/stockpulse/internal/config"

// Params are the tunables of one recompute run.
type Params struct {
	LookbackWeeks  int
	LeadTimeDays   int
	SafetyFactor   float64
	SlowPercentile float64
	FastPercentile float64
}

// DefaultParams returns the reference policy: 4-week lookback, 7-day lead
// time, neutral safety factor, 25th/75th percentile cut points.
func DefaultParams() Params {
	return Params{
		LookbackWeeks:  4,
		LeadTimeDays:   7,
		SafetyFactor:   1.0,
		SlowPercentile: 0.25,
		FastPercentile: 0.75,
	}
}

// ParamsFromConfig maps deployment configuration onto engine parameters,
// falling back to defaults for unset or nonsensical values.
func ParamsFromConfig(cfg config.MetricsConfig) Params {
	p := DefaultParams()
	if cfg.LookbackWeeks > 0 {
		p.LookbackWeeks = cfg.LookbackWeeks
	}
	if cfg.LeadTimeDays > 0 {
		p.LeadTimeDays = cfg.LeadTimeDays
	}
	if cfg.SafetyFactor > 0 {
		p.SafetyFactor = cfg.SafetyFactor
	}
	if cfg.SlowPercentile >= 0 && cfg.SlowPercentile <= 1 {
		p.SlowPercentile = cfg.SlowPercentile
	}
	if cfg.FastPercentile >= 0 && cfg.FastPercentile <= 1 {
		p.FastPercentile = cfg.FastPercentile
	}
	return p
}
