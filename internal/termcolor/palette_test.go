package termcolor

import (
	"testing"

	"github.com/phyten/todovet/internal/colorutil"
	"github.com/phyten/todovet/internal/model"
)

func TestHeaderStyle(t *testing.T) {
	s := HeaderStyle()
	if !s.Bold || !s.Underline {
		t.Fatalf("header style should enable bold+underline: %+v", s)
	}
}

func TestKindStyleBasic(t *testing.T) {
	cases := []struct {
		kind model.FindingKind
		want int
	}{
		{model.FindingMalformed, 3},
		{model.FindingClosed, 1},
		{model.FindingNonExistent, 5},
	}
	for _, tc := range cases {
		style := KindStyle(tc.kind, SchemeDark, ProfileBasic8)
		if style.FGBasic == nil || *style.FGBasic != tc.want || !style.Bold {
			t.Fatalf("%s basic style mismatch: %+v", tc.kind, style)
		}
	}
	other := KindStyle("other", SchemeDark, ProfileBasic8)
	if other.FGBasic != nil || other.FG256 != nil || other.FGTrue != nil {
		t.Fatalf("unknown kinds should have no color: %+v", other)
	}
}

func TestKindStyleTrueColorContrast(t *testing.T) {
	backgrounds := map[Scheme]colorutil.RGB{
		SchemeDark:  darkBackground,
		SchemeLight: lightBackground,
	}
	for scheme, bg := range backgrounds {
		for _, kind := range []model.FindingKind{model.FindingMalformed, model.FindingClosed, model.FindingNonExistent} {
			style := KindStyle(kind, scheme, ProfileTrueColor)
			if style.FGTrue == nil {
				t.Fatalf("%s truecolor missing fg: %+v", kind, style)
			}
			rgb := *style.FGTrue
			contrast := colorutil.ContrastRatio(colorutil.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, bg)
			if contrast < 4.5 {
				t.Fatalf("%s scheme %v contrast %.2f < 4.5 (rgb=%v)", kind, scheme, contrast, rgb)
			}
		}
	}
}

func TestHintStyle256(t *testing.T) {
	style := HintStyle(SchemeDark, ProfileANSI256)
	if style.FG256 == nil {
		t.Fatalf("hint 256 style missing color: %+v", style)
	}
	if *style.FG256 < 16 || *style.FG256 > 255 {
		t.Fatalf("hint 256 index out of range: %d", *style.FG256)
	}
	if style.Bold {
		t.Fatal("hint style should not be bold")
	}
}
