package sim

import "testing"

func TestBlock_SetHealthUpdatesLivenessAndColor(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := testBlock(cfg, 0, 0, 5)

	b.SetHealth(5)
	if !b.Alive() {
		t.Fatalf("expected alive at health 5")
	}
	if r, g, bl := b.Color().RGB255(); r != 198 || g != 228 || bl != 139 {
		t.Fatalf("full color = (%d,%d,%d), want (198,228,139)", r, g, bl)
	}

	b.SetHealth(0)
	if b.Alive() {
		t.Fatalf("expected dead at health 0")
	}
	if r, g, bl := b.Color().RGB255(); r != 0 || g != 0 || bl != 0 {
		t.Fatalf("empty color = (%d,%d,%d), want (0,0,0)", r, g, bl)
	}
	if b.MaxHealth() != 5 {
		t.Fatalf("max health changed: %d", b.MaxHealth())
	}
}

func TestColorRamp_SaturatesAtReference(t *testing.T) {
	t.Parallel()

	ramp := DefaultConfig().Ramp()
	if ramp.At(5) != ramp.At(12) {
		t.Fatalf("colors above the reference should match: %v vs %v", ramp.At(5), ramp.At(12))
	}
	r, g, b := ramp.At(2).RGB255()
	// round(198*0.4), round(228*0.4), round(139*0.4)
	if r != 79 || g != 91 || b != 56 {
		t.Fatalf("ramp(2) = (%d,%d,%d), want (79,91,56)", r, g, b)
	}
	if ramp.At(-3) != ramp.At(0) {
		t.Fatalf("negative health should clamp to empty")
	}
}

func TestBlock_ColorDependsOnlyOnHealth(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	a := testBlock(cfg, 0, 0, 9)
	b := testBlock(cfg, 6, 52, 3)

	for hp := 3; hp >= 0; hp-- {
		a.SetHealth(hp)
		b.SetHealth(hp)
		if a.Color() != b.Color() {
			t.Fatalf("health %d: %v != %v", hp, a.Color().Hex(), b.Color().Hex())
		}
	}
}

func TestBlock_BoundsInGridUnits(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	r := testBlock(cfg, 2, 7, 1).Bounds(cfg.BlockSize)
	if r.X != 7 || r.Y != 2 || r.W != 1 || r.H != 1 {
		t.Fatalf("bounds = %+v", r)
	}
	info := testBlock(cfg, 2, 7, 4).Info()
	if info.ID != "block-2-7" || info.X != 70 || info.Y != 20 || info.MaxHealth != 4 {
		t.Fatalf("info = %+v", info)
	}
}
