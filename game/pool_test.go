package game

import "testing"

func TestPoolPrewarmAndReuse(t *testing.T) {
	pp := NewPlatformPool(5)
	if pp.FreeCount() != 5 || pp.Allocated() != 5 || pp.ActiveCount() != 0 {
		t.Fatalf("prewarm: free=%d allocated=%d active=%d", pp.FreeCount(), pp.Allocated(), pp.ActiveCount())
	}

	a := pp.Acquire()
	b := pp.Acquire()
	pp.Acquire()
	if pp.ActiveCount() != 3 || pp.FreeCount() != 2 || pp.Reused() != 3 {
		t.Fatalf("after acquire: active=%d free=%d reused=%d", pp.ActiveCount(), pp.FreeCount(), pp.Reused())
	}

	if !pp.Release(a) {
		t.Fatalf("release of active platform failed")
	}
	if pp.Release(a) {
		t.Fatalf("double release must be a no-op")
	}
	if pp.FreeCount() != 3 || pp.ActiveCount() != 2 {
		t.Fatalf("after release: active=%d free=%d", pp.ActiveCount(), pp.FreeCount())
	}
	if a.Active() || !b.Active() {
		t.Fatalf("active flags wrong: a=%v b=%v", a.Active(), b.Active())
	}

	for i := 0; i < 10; i++ {
		pp.Acquire()
	}
	if pp.Allocated() != 12 {
		t.Fatalf("allocated=%d want 12", pp.Allocated())
	}
	if pp.ActiveCount()+pp.FreeCount() != pp.Allocated() {
		t.Fatalf("active+free != allocated")
	}
}

func TestPoolActiveAndFreeDisjoint(t *testing.T) {
	pp := NewPlatformPool(4)
	var seen []*Platform
	for i := 0; i < 8; i++ {
		seen = append(seen, pp.Acquire())
	}
	for i, p := range seen {
		if i%3 == 0 {
			pp.Release(p)
		}
	}
	pp.Acquire()
	for _, p := range seen {
		if pp.IsActive(p) == pp.IsFree(p) {
			t.Fatalf("platform %d active=%v free=%v", p.ID, pp.IsActive(p), pp.IsFree(p))
		}
	}
	for i, p := range pp.Active() {
		if !p.Active() {
			t.Fatalf("active slice holds inactive platform at %d", i)
		}
	}
}

func TestReleaseClearsGroundFlag(t *testing.T) {
	pp := NewPlatformPool(0)
	p := pp.Acquire()
	p.Ground = true
	pp.Release(p)
	if p.Ground {
		t.Fatalf("ground flag survived release")
	}
	if q := pp.Acquire(); q != p || q.Ground {
		t.Fatalf("expected the released instance back without ground flag")
	}
}
