package game

import "testing"

func TestSweepRetiresObjectsBelowThreshold(t *testing.T) {
	tn := DefaultTuning()
	_, f := newTestField(tn)

	ground := f.PlaceGround()
	high := f.PlacePlatform(100, -3000, 100, 20)
	low := f.PlacePlatform(100, -900, 100, 20)
	oldOrb := f.SpawnOrb(150, -960, Pink)
	newOrb := f.SpawnOrb(150, -3060, Magenta)

	// limit = -3000 + 2000 = -1000
	platforms, orbs := f.Sweep(-3000)
	if platforms != 2 || orbs != 1 {
		t.Fatalf("swept platforms=%d orbs=%d want 2,1", platforms, orbs)
	}
	if ground.Active() || low.Active() || !high.Active() {
		t.Fatalf("unexpected active flags ground=%v low=%v high=%v", ground.Active(), low.Active(), high.Active())
	}
	if oldOrb.Alive() || !newOrb.Alive() {
		t.Fatalf("orb alive flags old=%v new=%v", oldOrb.Alive(), newOrb.Alive())
	}
	if !f.Pool().IsFree(ground) || !f.Pool().IsFree(low) {
		t.Fatalf("retired platforms should be in the free list")
	}
	st := f.Stats()
	if st.PlatformsRecycled != 2 || st.OrbsExpired != 1 || st.OrbsCollected != 0 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestRetireTwiceIsNoop(t *testing.T) {
	tn := DefaultTuning()
	_, f := newTestField(tn)
	p := f.PlacePlatform(0, 0, 100, 20)
	if !f.RetirePlatform(p) {
		t.Fatalf("first retire failed")
	}
	if f.RetirePlatform(p) {
		t.Fatalf("second retire must report false")
	}
	if f.Pool().FreeCount() != tn.PoolPrewarm {
		t.Fatalf("free=%d want %d", f.Pool().FreeCount(), tn.PoolPrewarm)
	}
}

func TestClearEmptiesField(t *testing.T) {
	tn := DefaultTuning()
	_, f := newTestField(tn)
	f.PlaceGround()
	NewGenerator(tn, newRNG(5)).GenerateAhead(tn.SpawnY, f)
	f.Clear()
	if len(f.Platforms()) != 0 || len(f.Orbs()) != 0 {
		t.Fatalf("clear left platforms=%d orbs=%d", len(f.Platforms()), len(f.Orbs()))
	}
	if f.Pool().FreeCount() != f.Pool().Allocated() {
		t.Fatalf("all platforms should be back in the pool")
	}
}
