package domain

import "testing"

func TestFootprintTrailEvictsOldest(t *testing.T) {
	tr := NewFootprintTrail(3)

	for i := 0; i < 5; i++ {
		tr.Add(float64(i), 0, int64(i)*100)
	}

	if tr.Len() != 3 {
		t.Fatalf("Expected trail capped at 3, got %d", tr.Len())
	}

	all := tr.All()
	for i, want := range []int64{200, 300, 400} {
		if all[i].Time != want {
			t.Errorf("Expected print %d at time %d, got %d", i, want, all[i].Time)
		}
	}
}

func TestFootprintTrailMinimumCapacity(t *testing.T) {
	tr := NewFootprintTrail(0)
	tr.Add(0, 0, 1)
	tr.Add(0, 0, 2)

	if tr.Len() != 1 {
		t.Fatalf("Expected capacity floor 1, got len %d", tr.Len())
	}
	if tr.All()[0].Time != 2 {
		t.Error("Expected newest print to survive")
	}
}
