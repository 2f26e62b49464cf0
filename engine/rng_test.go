package engine

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(6)
		if r < 1 || r > 6 {
			t.Fatalf("roll out of range [1,6]: got %d", r)
		}
	}
}

func TestRNG_Roll_OneSided(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if r := rng.Roll(1); r != 1 {
			t.Fatalf("1-sided die should always be 1, got %d", r)
		}
	}
}

func TestRNG_WeightedSelect_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)
	weights := []int{70, 20, 10}

	for i := 0; i < 20; i++ {
		a := rng1.WeightedSelect(weights)
		b := rng2.WeightedSelect(weights)
		if a != b {
			t.Fatalf("selection %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	weights := []int{70, 20, 10}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := rng.WeightedSelect(weights)
		if idx < 0 || idx > 2 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	// With 10k trials, expect roughly 70%/20%/10% ± some margin.
	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 70, got %d", counts[0])
	}
	if counts[1] < 1000 || counts[1] > 3000 {
		t.Errorf("expected ~2000 for weight 20, got %d", counts[1])
	}
	if counts[2] < 200 || counts[2] > 1800 {
		t.Errorf("expected ~1000 for weight 10, got %d", counts[2])
	}
}

func TestRNG_WeightedSelect_SingleOption(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if idx := rng.WeightedSelect([]int{100}); idx != 0 {
			t.Fatalf("single option should always be 0, got %d", idx)
		}
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Roll(6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.WeightedSelect([]int{50, 50})
	if rng.Position() != 2 {
		t.Fatalf("expected position 2, got %d", rng.Position())
	}

	rng.Roll(20)
	rng.Roll(20)
	if rng.Position() != 4 {
		t.Fatalf("expected position 4, got %d", rng.Position())
	}
}

func TestRNG_Shuffle_Deterministic(t *testing.T) {
	a := []int{1, 2, 3, 4, 5, 6, 7, 8}
	b := []int{1, 2, 3, 4, 5, 6, 7, 8}
	NewRNG(7).Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
	NewRNG(7).Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle differs at %d: %v vs %v", i, a, b)
		}
	}
}

func TestRNG_Shuffle_IsPermutation(t *testing.T) {
	rng := NewRNG(3)
	xs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })

	seen := map[int]bool{}
	for _, x := range xs {
		seen[x] = true
	}
	if len(seen) != 10 {
		t.Fatalf("shuffle lost elements: %v", xs)
	}
	// n-1 draws for n elements.
	if rng.Position() != 9 {
		t.Errorf("expected position 9, got %d", rng.Position())
	}
}

func TestRNG_Float64_Range(t *testing.T) {
	rng := NewRNG(5)
	for i := 0; i < 1000; i++ {
		if f := rng.Float64(); f < 0 || f >= 1 {
			t.Fatalf("float out of range: %v", f)
		}
	}
	if rng.Seed() != 5 {
		t.Errorf("expected seed 5, got %d", rng.Seed())
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	// With different seeds, at least some rolls should differ.
	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Roll(100) != rng2.Roll(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
