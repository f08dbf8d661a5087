package game

import (
	"strings"
	"testing"
)

func TestSchedulerCadence(t *testing.T) {
	s := NewScheduler(DefaultTuning().Cadence)
	count := 0
	for tick := uint64(1); tick <= 120; tick++ {
		if s.Due(TaskCleanup, tick) {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("cleanup ran %d times in 120 ticks", count)
	}
	if s.Interval(TaskScore) != 10 {
		t.Fatalf("score interval=%d", s.Interval(TaskScore))
	}

	every := NewScheduler(Cadence{})
	if !every.Due(TaskTimer, 7) || every.Interval(TaskTimer) != 1 {
		t.Fatalf("zero cadence should run every tick")
	}
}

func TestFPSMeter(t *testing.T) {
	var m FPSMeter
	if m.FPS() != 0 {
		t.Fatalf("empty meter fps=%d", m.FPS())
	}
	for i := 0; i < 100; i++ {
		m.Observe(1.0 / 60)
	}
	if m.FPS() != 60 {
		t.Fatalf("fps=%d want 60", m.FPS())
	}
}

func TestEffectsExpire(t *testing.T) {
	var fx Effects
	fx.Points(Award{Points: 150, Multiplier: 3})
	fx.TimeBonus(5)
	if fx.Len() != 3 {
		t.Fatalf("len=%d want 3", fx.Len())
	}
	list := fx.List()
	if list[0].Text != "+150\nx3" || !strings.HasPrefix(list[2].Text, "+5") {
		t.Fatalf("texts=%q %q", list[0].Text, list[2].Text)
	}

	fx.Sweep(0.5)
	if fx.Len() != 2 {
		t.Fatalf("burst should expire first, len=%d", fx.Len())
	}
	fx.Sweep(1.1)
	if fx.Len() != 0 {
		t.Fatalf("all effects should expire, len=%d", fx.Len())
	}
}
