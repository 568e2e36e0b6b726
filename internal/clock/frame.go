package clock

import "github.com/Htoledo30/jogo1/internal/config"

// FrameClock turns a raw wall-clock dt into the effective dt the
// simulation should advance by, applying the dt ceiling and hit-pause
// dilation described in §4.A.
type FrameClock struct {
	cfg              config.ClockConfig
	HitPauseRemaining float64
}

func NewFrameClock(cfg config.ClockConfig) *FrameClock {
	return &FrameClock{cfg: cfg}
}

// Advance clamps rawDT to the configured ceiling, then — if a hit-pause
// is in effect — scales the returned dt by HitPauseScale while the
// countdown itself drains at the unscaled rate.
func (c *FrameClock) Advance(rawDT float64) float64 {
	if rawDT < 0 {
		rawDT = 0
	}
	if rawDT > c.cfg.MaxDT {
		rawDT = c.cfg.MaxDT
	}

	if c.HitPauseRemaining > 0 {
		effective := rawDT * c.cfg.HitPauseScale
		c.HitPauseRemaining -= rawDT
		if c.HitPauseRemaining < 0 {
			c.HitPauseRemaining = 0
		}
		return effective
	}
	return rawDT
}

// TriggerHitPause adds amount seconds of dilation, stacking with any
// remaining pause.
func (c *FrameClock) TriggerHitPause(amount float64) {
	if amount > 0 {
		c.HitPauseRemaining += amount
	}
}
