package state

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/dokzlo13/torchlight/internal/light"
)

func f32(v float32) *float32 {
	return &v
}

func rgb(r, g, b uint8) *light.RGB {
	return &light.RGB{R: r, G: g, B: b}
}

func TestSetBrightness_ClampsAndClears(t *testing.T) {
	tbl := NewTable()
	id := uuid.New()

	tbl.SetBrightness(id, f32(3))
	if d := tbl.Desired(id); d.Brightness == nil || *d.Brightness != light.MaxBrightness {
		t.Fatalf("brightness = %v, want %v", d.Brightness, light.MaxBrightness)
	}

	tbl.SetBrightness(id, f32(0))
	if d := tbl.Desired(id); *d.Brightness != light.MinBrightness {
		t.Fatalf("brightness = %v, want %v", *d.Brightness, light.MinBrightness)
	}

	tbl.SetBrightness(id, nil)
	if d := tbl.Desired(id); d.HasBrightness() {
		t.Fatalf("brightness should be cleared, got %v", *d.Brightness)
	}
}

func TestTintWarmthMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name       string
		ops        func(tbl *Table, id uuid.UUID)
		wantTint   bool
		wantWarmth bool
	}{
		{
			name: "tint_then_warmth",
			ops: func(tbl *Table, id uuid.UUID) {
				tbl.SetTint(id, rgb(255, 0, 0))
				tbl.SetWarmth(id, f32(0.5))
			},
			wantWarmth: true,
		},
		{
			name: "warmth_then_tint",
			ops: func(tbl *Table, id uuid.UUID) {
				tbl.SetWarmth(id, f32(0.5))
				tbl.SetTint(id, rgb(255, 0, 0))
			},
			wantTint: true,
		},
		{
			name: "clearing_tint_keeps_nothing",
			ops: func(tbl *Table, id uuid.UUID) {
				tbl.SetWarmth(id, f32(0.5))
				tbl.SetTint(id, rgb(255, 0, 0))
				tbl.SetTint(id, nil)
			},
		},
		{
			name: "clearing_warmth_leaves_tint",
			ops: func(tbl *Table, id uuid.UUID) {
				tbl.SetTint(id, rgb(1, 2, 3))
				tbl.SetWarmth(id, nil)
			},
			wantTint: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable()
			id := uuid.New()
			tt.ops(tbl, id)

			d := tbl.Desired(id)
			if (d.Tint != nil) != tt.wantTint {
				t.Errorf("tint set = %v, want %v", d.Tint != nil, tt.wantTint)
			}
			if (d.Warmth != nil) != tt.wantWarmth {
				t.Errorf("warmth set = %v, want %v", d.Warmth != nil, tt.wantWarmth)
			}
			if d.Tint != nil && d.Warmth != nil {
				t.Error("tint and warmth both set")
			}
		})
	}
}

func TestSetWarmth_Clamps(t *testing.T) {
	tbl := NewTable()
	id := uuid.New()

	tbl.SetWarmth(id, f32(7))
	if d := tbl.Desired(id); *d.Warmth != 1 {
		t.Errorf("warmth = %v, want 1", *d.Warmth)
	}
	tbl.SetWarmth(id, f32(-2))
	if d := tbl.Desired(id); *d.Warmth != 0 {
		t.Errorf("warmth = %v, want 0", *d.Warmth)
	}
}

func TestHasState(t *testing.T) {
	tbl := NewTable()
	id := uuid.New()

	if tbl.HasState(id) {
		t.Fatal("new player should have no state")
	}

	tbl.SetTint(id, rgb(1, 2, 3))
	if tbl.HasState(id) {
		t.Fatal("tint alone should not count as state")
	}

	tbl.SetBrightness(id, f32(0.5))
	if !tbl.HasState(id) {
		t.Fatal("brightness should count as state")
	}

	if !tbl.Activate(id, nil) {
		t.Fatal("Activate() = false with brightness set")
	}
	tbl.SetBrightness(id, nil)
	if !tbl.HasState(id) {
		t.Fatal("active boost should count as state")
	}

	tbl.Deactivate(id)
	if tbl.HasState(id) {
		t.Fatal("no brightness and no boost should have no state")
	}
}

func TestClear_PurgesEverything(t *testing.T) {
	tbl := NewTable()
	id := uuid.New()
	other := uuid.New()

	tbl.SetBrightness(id, f32(0.5))
	tbl.SetWarmth(id, f32(0.3))
	tbl.Activate(id, &light.ColorLight{Radius: 8, Red: 10, Green: 10, Blue: 10})
	tbl.SetBrightness(other, f32(1))
	tbl.SetTint(other, rgb(9, 9, 9))

	tbl.Clear(id)

	if tbl.HasState(id) || tbl.IsActive(id) || tbl.Baseline(id) != nil {
		t.Error("state survived Clear")
	}
	if d := tbl.Desired(id); d.Brightness != nil || d.Tint != nil || d.Warmth != nil {
		t.Errorf("desired survived Clear: %+v", d)
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
	if !tbl.HasState(other) {
		t.Error("Clear touched another player")
	}
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := NewTable()
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := ids[(w+i)%len(ids)]
				switch i % 5 {
				case 0:
					tbl.SetTint(id, rgb(uint8(i), 0, 0))
				case 1:
					tbl.SetWarmth(id, f32(float32(i%10)/10))
				case 2:
					tbl.SetBrightness(id, f32(0.5))
				case 3:
					tbl.HasState(id)
				case 4:
					if d := tbl.Desired(id); d.Tint != nil && d.Warmth != nil {
						t.Errorf("tint and warmth both set for %s", id)
					}
				}
			}
		}(w)
	}
	wg.Wait()
}
