package game

import "testing"

func TestZoneMultiplierBoundaries(t *testing.T) {
	cases := map[float64]int{
		0:      1,
		1000:   1,
		1000.5: 2,
		2000:   2,
		2001:   3,
		3000:   3,
		3001:   4,
	}
	for h, want := range cases {
		if got := ZoneMultiplier(h); got != want {
			t.Fatalf("ZoneMultiplier(%v)=%d want %d", h, got, want)
		}
	}
}

func TestOrbPointsByColorAndZone(t *testing.T) {
	if got := OrbPoints(Magenta.PointValue(), 2500); got != 150 {
		t.Fatalf("magenta at 2500m=%d want 150", got)
	}
	if got := OrbPoints(Magenta.PointValue(), 500); got != 50 {
		t.Fatalf("magenta at 500m=%d want 50", got)
	}
	want := []int{10, 20, 30, 40, 50}
	for i, c := range OrbPalette {
		if c.PointValue() != want[i] {
			t.Fatalf("%s point value=%d want %d", c, c.PointValue(), want[i])
		}
	}
}

func TestCollectAwardsOnce(t *testing.T) {
	tr := NewTracker(DefaultTuning())
	o := &Orb{X: 10, Y: -250000, Color: Magenta, alive: true}

	a, ok := tr.Collect(o)
	if !ok || a.Points != 150 || a.Multiplier != 3 {
		t.Fatalf("award=%+v ok=%v", a, ok)
	}
	if _, ok := tr.Collect(o); ok {
		t.Fatalf("second collect must not award")
	}
	if tr.Score() != 150 {
		t.Fatalf("score=%d want 150", tr.Score())
	}
}

func TestMilestonesGrantedOnce(t *testing.T) {
	tn := DefaultTuning()
	tr := NewTracker(tn)
	at := func(m float64) float64 { return tn.SpawnY - m*tn.UnitsPerMeter }

	if _, ok := tr.UpdateHeight(at(9)); ok {
		t.Fatalf("no milestone below 10m")
	}
	if m, ok := tr.UpdateHeight(at(10)); !ok || m != 1 {
		t.Fatalf("milestone at 10m: m=%d ok=%v", m, ok)
	}
	if _, ok := tr.UpdateHeight(at(12)); ok {
		t.Fatalf("milestone 1 granted twice")
	}
	if m, ok := tr.UpdateHeight(at(25)); !ok || m != 2 {
		t.Fatalf("milestone at 25m: m=%d ok=%v", m, ok)
	}
	// 回落后再上升不重复计
	tr.UpdateHeight(at(3))
	if _, ok := tr.UpdateHeight(at(15)); ok {
		t.Fatalf("milestone regranted after falling back")
	}
	if tr.Bonus() != 2*tn.MilestoneBonus || tr.Milestones() != 2 {
		t.Fatalf("bonus=%v milestones=%d", tr.Bonus(), tr.Milestones())
	}
	if tr.Height() != 15 {
		t.Fatalf("height=%d want 15", tr.Height())
	}

	tr.Reset()
	if tr.Milestones() != 0 || tr.Bonus() != 0 || tr.Score() != 0 || tr.Height() != 0 {
		t.Fatalf("reset left state behind")
	}
}

func TestHeightForClampsBelowSpawn(t *testing.T) {
	tn := DefaultTuning()
	tr := NewTracker(tn)
	if h := tr.HeightFor(tn.SpawnY + 500); h != 0 {
		t.Fatalf("height below spawn=%d want 0", h)
	}
	if h := tr.HeightFor(tn.SpawnY - 199); h != 1 {
		t.Fatalf("height floor=%d want 1", h)
	}
}
