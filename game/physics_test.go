package game

import "testing"

func TestStepBlocksAgainstPlatformFromBelow(t *testing.T) {
	tn := DefaultTuning()
	w, f := newTestField(tn)
	f.PlacePlatform(350, 50, 100, 20)

	b := &Body{X: 400, Y: 100, Radius: tn.PlayerRadius}
	w.AddBody(b)
	b.VY = -600

	contacts := w.Step(b, 0.05)
	if len(contacts) != 1 || contacts[0].Kind != KindPlatform {
		t.Fatalf("expected one platform contact, got %+v", contacts)
	}
	if b.Y != 70+tn.PlayerRadius {
		t.Fatalf("body should stop under platform, y=%v", b.Y)
	}
	if b.VY <= 0 {
		t.Fatalf("expected downward rebound, vy=%v", b.VY)
	}
	if b.Grounded {
		t.Fatalf("ceiling hit must not ground the body")
	}
}

func TestStepLandsAndRests(t *testing.T) {
	tn := DefaultTuning()
	w, f := newTestField(tn)
	f.PlaceGround()

	b := &Body{X: 400, Y: 500, Radius: tn.PlayerRadius}
	w.AddBody(b)
	for i := 0; i < 240; i++ {
		w.Step(b, 1.0/60)
	}
	if !b.Grounded {
		t.Fatalf("body never came to rest")
	}
	if b.Y != tn.GroundY-tn.PlayerRadius || b.VY != 0 {
		t.Fatalf("rest position y=%v vy=%v", b.Y, b.VY)
	}
	if !w.Supported(b) {
		t.Fatalf("resting body should be supported")
	}
}

func TestStepClampsToWorldWidth(t *testing.T) {
	tn := DefaultTuning()
	w, _ := newTestField(tn)
	b := &Body{X: tn.WorldWidth - 20, Y: 0, Radius: tn.PlayerRadius, VX: 400}
	w.AddBody(b)
	w.Step(b, 0.05)
	if b.X != tn.WorldWidth-tn.PlayerRadius {
		t.Fatalf("x=%v want clamped to %v", b.X, tn.WorldWidth-tn.PlayerRadius)
	}
}

func TestOverlapsReportsAliveOrbsOnly(t *testing.T) {
	tn := DefaultTuning()
	w, f := newTestField(tn)
	b := &Body{X: 200, Y: 200, Radius: tn.PlayerRadius}
	w.AddBody(b)

	hit := f.SpawnOrb(205, 205, HotPink)
	f.SpawnOrb(600, 200, Pink)

	got := w.Overlaps(b)
	if len(got) != 1 || got[0].Orb != hit {
		t.Fatalf("overlaps=%+v", got)
	}
	f.DestroyOrb(hit)
	if got := w.Overlaps(b); len(got) != 0 {
		t.Fatalf("destroyed orb still reported: %+v", got)
	}
}
