package color

import "testing"

var fadeSamples = []RGB{
	White,
	{255, 0, 0},
	{100, 149, 237},
	{255, 87, 87},
	{194, 162, 218},
	Black,
}

func TestFadeZeroDistanceIsIdentity(t *testing.T) {
	for _, c := range fadeSamples {
		for _, r := range []float64{0.5, 5, 20, 50} {
			if got := Fade(c, 0, r); got != c {
				t.Errorf("Fade(%v, 0, %v) = %v, want unchanged", c, r, got)
			}
		}
	}
}

func TestFadeBeyondRadiusIsMaximum(t *testing.T) {
	for _, c := range fadeSamples {
		want := Fade(c, 20, 20)
		for _, d := range []float64{20, 21, 35.5, 1000} {
			if got := Fade(c, d, 20); got != want {
				t.Errorf("Fade(%v, %v, 20) = %v, want %v", c, d, got, want)
			}
		}
		if got := Fade(c, 3, 0); got != want {
			t.Errorf("Fade(%v, 3, 0) = %v, want max fade %v", c, got, want)
		}
		if got := Fade(c, 0, -4); got != want {
			t.Errorf("Fade(%v, 0, -4) = %v, want max fade %v", c, got, want)
		}
	}
}

func TestFadeBuckets(t *testing.T) {
	tests := []struct {
		distance, radius float64
		want             int
	}{
		{0, 20, 0},
		{4.99, 20, 0},
		{5, 20, 1},
		{10, 20, 2},
		{14.9, 20, 2},
		{15, 20, 3},
		{20, 20, 3},
		{200, 20, 3},
		{1, 0, 3},
		{-3, 20, 0},
	}
	for _, tt := range tests {
		if got := FadeBucket(tt.distance, tt.radius); got != tt.want {
			t.Errorf("FadeBucket(%v, %v) = %d, want %d", tt.distance, tt.radius, got, tt.want)
		}
	}
}

func TestFadeValues(t *testing.T) {
	tests := []struct {
		base     RGB
		distance float64
		want     RGB
	}{
		{White, 5, RGB{224, 224, 224}},
		{White, 10, RGB{194, 194, 194}},
		{White, 15, RGB{163, 163, 163}},
		{RGB{255, 0, 0}, 5, RGB{172, 22, 22}},
		{RGB{255, 0, 0}, 10, RGB{103, 39, 39}},
		{RGB{255, 0, 0}, 20, RGB{49, 49, 49}},
		{RGB{100, 149, 237}, 5, RGB{101, 130, 181}},
		{RGB{100, 149, 237}, 10, RGB{98, 111, 133}},
		{RGB{100, 149, 237}, 19, RGB{92, 92, 92}},
	}
	for _, tt := range tests {
		if got := Fade(tt.base, tt.distance, 20); got != tt.want {
			t.Errorf("Fade(%v, %v, 20) = %v, want %v", tt.base, tt.distance, got, tt.want)
		}
	}
}

func TestFadeDeterministic(t *testing.T) {
	c := RGB{12, 200, 99}
	first := Fade(c, 7.3, 20)
	for i := 0; i < 100; i++ {
		if got := Fade(c, 7.3, 20); got != first {
			t.Fatalf("Fade not deterministic: %v vs %v", got, first)
		}
	}
}
