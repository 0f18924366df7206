package vmath

import "testing"

func TestOffsetRayOriginMovesAwayFromSurface(t *testing.T) {
	p := V3{0, 0, 0}
	pError := V3{1e-5, 1e-5, 1e-5}
	n := V3{0, 0, 1}
	dir := V3{0, 0, 1}
	o := OffsetRayOrigin(p, pError, n, dir)
	if o.Z <= p.Z {
		t.Fatalf("offset origin %v did not move along +n from %v", o, p)
	}
}

func TestOffsetRayOriginFlipsWithDirection(t *testing.T) {
	p := V3{0, 0, 0}
	pError := V3{1e-5, 1e-5, 1e-5}
	n := V3{0, 0, 1}
	o := OffsetRayOrigin(p, pError, n, V3{0, 0, -1})
	if o.Z >= p.Z {
		t.Fatalf("offset origin %v should move along -n when dir opposes n", o)
	}
}

func TestSpawnRayToStopsShortOfTarget(t *testing.T) {
	p := V3{0, 0, 0}
	pError := V3{1e-6, 1e-6, 1e-6}
	n := V3{0, 1, 0}
	target := V3{0, 10, 0}
	r := SpawnRayTo(p, pError, n, target)
	if r.TMax >= 1 {
		t.Fatalf("SpawnRayTo TMax=%v should be < 1", r.TMax)
	}
	endpoint := r.At(r.TMax)
	if endpoint.Sub(target).Len() > 0.1 {
		t.Fatalf("spawned ray endpoint %v too far from target %v", endpoint, target)
	}
}
