package domain

import "testing"

func TestSkewedUniform(t *testing.T) {
	src := NewRandomSource(1)

	t.Run("stays inside the range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := SkewedUniform(src, 1.0, 15.0)
			if v < 1.0 || v >= 15.0 {
				t.Fatalf("Draw %f outside [1, 15)", v)
			}
		}
	})

	t.Run("biases toward the low end", func(t *testing.T) {
		sum := 0.0
		const n = 5000
		for i := 0; i < n; i++ {
			sum += SkewedUniform(src, 0.0, 1.0)
		}
		// E[u^1.5] = 0.4; a uniform draw would average 0.5.
		mean := sum / n
		if mean > 0.45 {
			t.Errorf("Mean %f shows no low-end skew", mean)
		}
	})

	t.Run("collapsed range is a constant", func(t *testing.T) {
		if v := SkewedUniform(src, 2.0, 2.0); v != 2.0 {
			t.Errorf("Expected 2.0, got %f", v)
		}
	})
}

func TestChance(t *testing.T) {
	src := NewRandomSource(1)
	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if Chance(src, 0.3) {
			hits++
		}
	}
	if hits < n*25/100 || hits > n*35/100 {
		t.Errorf("0.3 chance hit %d of %d times", hits, n)
	}
}
