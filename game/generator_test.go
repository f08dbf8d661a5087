package game

import (
	"math"
	"testing"
)

func TestPlatformChanceTiers(t *testing.T) {
	cases := []struct {
		h    float64
		want float64
	}{
		{0, 0.9},
		{50, 0.9},
		{50.5, 0.7},
		{100, 0.7},
		{101, 0.5},
		{200, 0.5},
		{201, 0.3},
		{500, 0.3},
		{501, 0.2},
		{10000, 0.2},
	}
	for _, c := range cases {
		if got := PlatformChance(c.h); got != c.want {
			t.Fatalf("PlatformChance(%v)=%v want %v", c.h, got, c.want)
		}
	}
}

func TestRowCurves(t *testing.T) {
	tn := DefaultTuning()

	for h, want := range map[float64]int{0: 3, 199: 3, 200: 2, 399: 2, 400: 1, 5000: 1} {
		if got := tn.MaxPlatformsPerRow(h); got != want {
			t.Fatalf("MaxPlatformsPerRow(%v)=%d want %d", h, got, want)
		}
	}
	for h, want := range map[float64]float64{0: 120, 100: 80, 150: 80, 5000: 80} {
		if got := tn.PlatformWidth(h); math.Abs(got-want) > 1e-9 {
			t.Fatalf("PlatformWidth(%v)=%v want %v", h, got, want)
		}
	}
	if got := tn.SideMarginAt(200); got != 50 {
		t.Fatalf("margin at 200m=%v want 50", got)
	}
	if got := tn.SideMarginAt(201); got != 100 {
		t.Fatalf("margin at 201m=%v want 100", got)
	}
	if got := tn.OrbChance(0); got != 0.3 {
		t.Fatalf("orb chance at 0=%v", got)
	}
	if got := tn.OrbChance(2000); got != 0 {
		t.Fatalf("orb chance must not go negative, got %v", got)
	}
	if got := tn.RowGap(40); got != 300 {
		t.Fatalf("RowGap(40)=%v want 300", got)
	}
}

func newTestField(tn Tuning) (*World, *Field) {
	w := NewWorld(tn)
	return w, NewField(tn, w)
}

func TestGenerateAheadFillsBuffer(t *testing.T) {
	tn := DefaultTuning()
	_, f := newTestField(tn)
	g := NewGenerator(tn, newRNG(7))

	rows := g.GenerateAhead(tn.SpawnY, f)
	if rows == 0 {
		t.Fatalf("expected rows to be generated")
	}
	if g.Frontier() > tn.SpawnY-tn.GenerationBuffer {
		t.Fatalf("frontier %v not beyond buffer", g.Frontier())
	}
	if g.NeedsRows(tn.SpawnY) {
		t.Fatalf("generator still wants rows after GenerateAhead")
	}

	for _, p := range f.Platforms() {
		if p.Y > tn.InitialFrontierY || p.Y <= g.Frontier() {
			t.Fatalf("platform y=%v outside generated band", p.Y)
		}
		h := math.Abs(p.Y) / tn.UnitsPerMeter
		margin := tn.SideMarginAt(h)
		if p.X < margin || p.Right() > tn.WorldWidth-margin+1 {
			t.Fatalf("platform x=%v w=%v violates margins", p.X, p.Width)
		}
		if p.Width < tn.PlatformMinWidth {
			t.Fatalf("platform narrower than minimum: %v", p.Width)
		}
	}
	for _, o := range f.Orbs() {
		found := false
		for _, p := range f.Platforms() {
			if o.Y == p.Y-tn.OrbOffsetY && o.X == p.X+p.Width/2 {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("orb %d at (%v,%v) is not anchored to a platform", o.ID, o.X, o.Y)
		}
	}
}

func TestGeneratorDeterministicForSeed(t *testing.T) {
	tn := DefaultTuning()
	_, f1 := newTestField(tn)
	_, f2 := newTestField(tn)
	NewGenerator(tn, newRNG(99)).GenerateAhead(-5000, f1)
	NewGenerator(tn, newRNG(99)).GenerateAhead(-5000, f2)

	a, b := f1.Platforms(), f2.Platforms()
	if len(a) != len(b) {
		t.Fatalf("platform count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y || a[i].Width != b[i].Width {
			t.Fatalf("platform %d differs: %+v vs %+v", i, *a[i], *b[i])
		}
	}
}

func TestGeneratorStopsAtWorldTop(t *testing.T) {
	tn := DefaultTuning()
	tn.WorldHeight = 3000
	_, f := newTestField(tn)
	g := NewGenerator(tn, newRNG(1))

	g.GenerateAhead(-tn.WorldHeight, f)
	if g.Frontier() > -tn.WorldHeight {
		t.Fatalf("frontier %v should pass the world top", g.Frontier())
	}
	if g.NeedsRows(-tn.WorldHeight) {
		t.Fatalf("no rows should be requested beyond the world top")
	}
	for _, p := range f.Platforms() {
		if p.Y <= -tn.WorldHeight {
			t.Fatalf("platform generated above world top: y=%v", p.Y)
		}
	}
}

func TestGeneratorReset(t *testing.T) {
	tn := DefaultTuning()
	_, f := newTestField(tn)
	g := NewGenerator(tn, newRNG(3))
	g.GenerateAhead(0, f)
	g.Reset()
	if g.Frontier() != tn.InitialFrontierY || g.Rows() != 0 {
		t.Fatalf("reset frontier=%v rows=%d", g.Frontier(), g.Rows())
	}
}
