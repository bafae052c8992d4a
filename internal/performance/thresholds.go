package performance

import "github.com/synergyrm/rm-copilot/pkg/config"

// Thresholds parameterise the engine. They are built once at startup and
// treated as immutable.
type Thresholds struct {
	ZScoreThreshold     float64
	Dispersion          float64
	MinSamples          int
	Window              int
	TrendWindow         int
	TrendDropChange     float64
	TrendCriticalChange float64
	DeclinePct          float64
	CriticalDeclinePct  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ZScoreThreshold:     -1.5,
		Dispersion:          DefaultDispersion,
		MinSamples:          3,
		Window:              DefaultWindow,
		TrendWindow:         DefaultWindow,
		TrendDropChange:     -0.20,
		TrendCriticalChange: -0.35,
		DeclinePct:          -15,
		CriticalDeclinePct:  -25,
	}
}

// ThresholdsFromConfig overlays the configured alert settings on the
// defaults.
func ThresholdsFromConfig(cfg config.AlertsConfig) Thresholds {
	t := DefaultThresholds()
	if cfg.ZScoreThreshold < 0 {
		t.ZScoreThreshold = cfg.ZScoreThreshold
	}
	if cfg.AssumedDispersion > 0 {
		t.Dispersion = cfg.AssumedDispersion
	}
	if cfg.DeclineThresholdPct < 0 {
		t.DeclinePct = cfg.DeclineThresholdPct
	}
	if cfg.CriticalDeclinePct < 0 {
		t.CriticalDeclinePct = cfg.CriticalDeclinePct
	}
	return t
}
