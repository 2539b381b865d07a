package main

import "time"

// fixedStep paces animated output at a steady ticks-per-second rate.
type fixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

func newFixedStep(tps int) *fixedStep {
	if tps <= 0 {
		tps = 10
	}
	fs := &fixedStep{step: time.Second / time.Duration(tps)}
	fs.accumulator = fs.step
	return fs
}

// shouldStep reports whether the simulation should advance by one tick.
func (f *fixedStep) shouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
