package style

import (
	"testing"

	"github.com/gogpu/ui"
)

func TestResolveInheritance(t *testing.T) {
	parent := DefaultResolved()
	parent.TextColor = ui.Red
	parent.FontFamily = "Inter"
	parent.FontSize = 20
	parent.FontWeight = 700
	parent.LineHeight = 1.5

	got := Resolve(nil, &parent)

	// Every inheritable property of a child with no override must equal the
	// parent's resolved value.
	if got.TextColor != parent.TextColor {
		t.Errorf("TextColor = %+v, want parent's %+v", got.TextColor, parent.TextColor)
	}
	if got.FontFamily != parent.FontFamily {
		t.Errorf("FontFamily = %q, want %q", got.FontFamily, parent.FontFamily)
	}
	if got.FontSize != parent.FontSize {
		t.Errorf("FontSize = %f, want %f", got.FontSize, parent.FontSize)
	}
	if got.FontWeight != parent.FontWeight {
		t.Errorf("FontWeight = %d, want %d", got.FontWeight, parent.FontWeight)
	}
	if got.LineHeight != parent.LineHeight {
		t.Errorf("LineHeight = %f, want %f", got.LineHeight, parent.LineHeight)
	}
}

func TestResolveNonInheritableUsesDefaults(t *testing.T) {
	parent := DefaultResolved()
	parent.Background = ui.Blue
	parent.Padding = ui.UniformInsets(12)
	parent.FlexGrow = 3

	got := Resolve(nil, &parent)

	// Non-inheritable properties must fall back to fixed defaults, not
	// to the parent.
	if got.Background != ui.Transparent {
		t.Errorf("Background inherited: %+v", got.Background)
	}
	if !got.Padding.IsZero() {
		t.Errorf("Padding inherited: %+v", got.Padding)
	}
	if got.FlexGrow != 0 {
		t.Errorf("FlexGrow inherited: %f", got.FlexGrow)
	}
}

func TestResolveDeclaredWins(t *testing.T) {
	parent := DefaultResolved()
	parent.TextColor = ui.Red

	var decl Style
	decl.SetTextColor(ui.Green).SetFontSize(11)

	got := Resolve(&decl, &parent)
	if got.TextColor != ui.Green {
		t.Errorf("declared TextColor lost: %+v", got.TextColor)
	}
	if got.FontSize != 11 {
		t.Errorf("declared FontSize lost: %f", got.FontSize)
	}
	// Undeclared inheritable still cascades.
	if got.FontFamily != parent.FontFamily {
		t.Errorf("FontFamily = %q, want %q", got.FontFamily, parent.FontFamily)
	}
}

func TestResolveZeroValueDistinctFromUnset(t *testing.T) {
	parent := DefaultResolved()
	parent.FontSize = 20

	var decl Style
	decl.SetFontSize(0) // explicitly declared zero

	got := Resolve(&decl, &parent)
	if got.FontSize != 0 {
		t.Errorf("explicit zero FontSize overridden by cascade: %f", got.FontSize)
	}
}

func TestResolveDeterministic(t *testing.T) {
	parent := DefaultResolved()
	var decl Style
	decl.SetBackground(ui.Hex("#102030")).
		SetPadding(ui.UniformInsets(4)).
		SetDirection(Column).
		SetFlexGrow(2)

	a := Resolve(&decl, &parent)
	b := Resolve(&decl, &parent)
	if a != b {
		t.Error("Resolve is not deterministic for identical inputs")
	}
}

func TestResolveNilParent(t *testing.T) {
	got := Resolve(nil, nil)
	if got != DefaultResolved() {
		t.Errorf("nil/nil resolution should be the default resolved style")
	}
}

func TestDimensionConstructors(t *testing.T) {
	tests := []struct {
		name string
		d    Dimension
		kind DimensionKind
		val  float32
	}{
		{"auto", Auto(), DimAuto, 0},
		{"px", Px(42), DimFixed, 42},
		{"percent", Percent(50), DimPercent, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.d.Kind != tt.kind || tt.d.Value != tt.val {
				t.Errorf("got %+v", tt.d)
			}
		})
	}
}
