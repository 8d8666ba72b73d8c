package colorutil

import "testing"

func TestContrastRatio(t *testing.T) {
	if got := ContrastRatio(black, white); got < 20.9 || got > 21.1 {
		t.Fatalf("black on white = %.2f, want 21", got)
	}
	if ContrastRatio(white, black) != ContrastRatio(black, white) {
		t.Fatal("contrast ratio must be symmetric")
	}
	if got := ContrastRatio(RGB{30, 30, 30}, RGB{30, 30, 30}); got != 1 {
		t.Fatalf("same color = %.2f, want 1", got)
	}
}

func TestTextOn(t *testing.T) {
	cases := map[string]struct {
		bg   RGB
		want RGB
	}{
		"cream":     {RGB{255, 247, 237}, black},
		"navy":      {RGB{15, 23, 42}, white},
		"warm gray": {RGB{120, 113, 108}, white},
	}
	for name, tc := range cases {
		if got := textOn(tc.bg); got != tc.want {
			t.Errorf("%s: textOn = %v, want %v", name, got, tc.want)
		}
	}
}

func TestEnsureContrast(t *testing.T) {
	cases := []struct {
		name   string
		fg, bg RGB
	}{
		{"red on white", RGB{255, 0, 0}, white},
		{"amber on light", RGB{240, 170, 30}, RGB{249, 250, 251}},
		{"blue on dark", RGB{20, 40, 160}, RGB{30, 30, 30}},
	}
	for _, tc := range cases {
		got := EnsureContrast(tc.fg, tc.bg, 0)
		if r := ContrastRatio(got, tc.bg); r < MinContrast {
			t.Errorf("%s: contrast %.2f < %.1f (rgb=%v)", tc.name, r, MinContrast, got)
		}
		if got == black || got == white {
			t.Errorf("%s: hue lost, got %v", tc.name, got)
		}
	}

	readable := RGB{185, 28, 28}
	if got := EnsureContrast(readable, white, 4.5); got != readable {
		t.Fatalf("readable colors must be kept, got %v", got)
	}
}

func TestMix(t *testing.T) {
	a, b := RGB{0, 100, 200}, RGB{200, 100, 0}
	for tt, want := range map[float64]RGB{-1: a, 0: a, 0.5: {100, 100, 100}, 1: b, 2: b} {
		if got := Mix(a, b, tt); got != want {
			t.Errorf("Mix(t=%v) = %v, want %v", tt, got, want)
		}
	}
}

func TestANSI256(t *testing.T) {
	for c, want := range map[RGB]int{
		{0, 255, 0}:     46,
		{0, 0, 0}:       16,
		{255, 255, 255}: 231,
		{128, 128, 128}: 243,
		{255, 0, 0}:     196,
	} {
		if got := c.ANSI256(); got != want {
			t.Errorf("%v.ANSI256() = %d, want %d", c, got, want)
		}
	}
}
