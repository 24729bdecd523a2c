package worker

import (
	"context"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/core/config"
	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
)

// Pacer makes the automated reply look typed by a person. Every delay is a
// real wait and honours ctx.
type Pacer struct {
	cfg   config.PacingConfig
	rnd   brain.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(cfg config.PacingConfig, rnd brain.Rand) *Pacer {
	if rnd == nil {
		rnd = brain.NewRand()
	}
	return &Pacer{cfg: cfg, rnd: rnd, sleep: sleepCtx}
}

// NewPacerWithSleeper lets tests observe delays instead of waiting.
func NewPacerWithSleeper(cfg config.PacingConfig, rnd brain.Rand, sleep func(ctx context.Context, d time.Duration) error) *Pacer {
	p := NewPacer(cfg, rnd)
	p.sleep = sleep
	return p
}

func (p *Pacer) ReadDelay() time.Duration {
	return p.between(p.cfg.ReadMin, p.cfg.ReadMax)
}

func (p *Pacer) ThinkDelay() time.Duration {
	return p.between(p.cfg.ThinkMin, p.cfg.ThinkMax)
}

// TypingDelay is base + chars/rate, capped.
func (p *Pacer) TypingDelay(chars int) time.Duration {
	d := p.cfg.TypingBase
	if p.cfg.CharsPerSecond > 0 {
		d += time.Duration(float64(chars) / p.cfg.CharsPerSecond * float64(time.Second))
	}
	if p.cfg.TypingCap > 0 {
		d = min(d, p.cfg.TypingCap)
	}
	return d
}

func (p *Pacer) Read(ctx context.Context) error {
	return p.sleep(ctx, p.ReadDelay())
}

func (p *Pacer) Think(ctx context.Context) error {
	return p.sleep(ctx, p.ThinkDelay())
}

func (p *Pacer) Type(ctx context.Context, chars int) error {
	return p.sleep(ctx, p.TypingDelay(chars))
}

func (p *Pacer) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(p.rnd.Float64()*float64(hi-lo))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
