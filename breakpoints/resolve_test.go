package breakpoints

import (
	"testing"
)

func mustRegister(t *testing.T, reg *registry, name, value string) {
	t.Helper()
	bp, err := parseBreakpoint(name, value)
	if err != nil {
		t.Fatalf("parseBreakpoint(%q, %q): %v", name, value, err)
	}
	if err := reg.register(bp); err != nil {
		t.Fatalf("register(%q): %v", name, err)
	}
}

func TestResolveSingleMax(t *testing.T) {
	reg := newRegistry()
	mustRegister(t, reg, "mobile", "max 340px")

	resolved := reg.resolve(Options{})
	if got, want := resolved["mobile"], "screen and (max-width: 340px)"; got != want {
		t.Errorf("mobile = %q, want %q", got, want)
	}
	if got, want := resolved["mobile-and-down"], "screen and (max-width: 340px)"; got != want {
		t.Errorf("mobile-and-down = %q, want %q", got, want)
	}
	// the lowest max tier has no lower neighbor, so -and-up is undefined
	if _, ok := resolved["mobile-and-up"]; ok {
		t.Error("mobile-and-up must not be defined for the lowest max tier")
	}
}

func TestResolveSingleMinEm(t *testing.T) {
	reg := newRegistry()
	mustRegister(t, reg, "desk", "min 80em")

	resolved := reg.resolve(Options{})
	if got, want := resolved["desk"], "screen and (min-width: 80em)"; got != want {
		t.Errorf("desk = %q, want %q", got, want)
	}
	if got, want := resolved["desk-and-up"], "screen and (min-width: 80em)"; got != want {
		t.Errorf("desk-and-up = %q, want %q", got, want)
	}
	if _, ok := resolved["desk-and-down"]; ok {
		t.Error("desk-and-down must not be defined for the highest min tier")
	}
}

func TestResolveTiers(t *testing.T) {
	reg := newRegistry()
	mustRegister(t, reg, "palm", "max 340px")
	mustRegister(t, reg, "tab", "max 700px")
	mustRegister(t, reg, "desk", "min 1000px")
	mustRegister(t, reg, "desk-wide", "min 1200px")
	reg.options[optionDevice] = true

	resolved := reg.resolve(reg.effectiveOptions(Options{}))

	want := map[string]string{
		"palm":             "screen and (max-device-width: 340px)",
		"palm-and-down":    "screen and (max-device-width: 340px)",
		"tab":              "screen and (max-device-width: 700px) and (min-device-width: 341px)",
		"tab-and-down":     "screen and (max-device-width: 700px)",
		"tab-and-up":       "screen and (min-device-width: 341px)",
		"desk":             "screen and (min-device-width: 1000px) and (max-device-width: 1199px)",
		"desk-and-up":      "screen and (min-device-width: 1000px)",
		"desk-and-down":    "screen and (max-device-width: 1199px)",
		"desk-wide":        "screen and (min-device-width: 1200px)",
		"desk-wide-and-up": "screen and (min-device-width: 1200px)",
	}
	for name, query := range want {
		if got := resolved[name]; got != query {
			t.Errorf("%s = %q, want %q", name, got, query)
		}
	}
}

func TestResolveNonOverlappingCoverage(t *testing.T) {
	// adjacent tiers must neither overlap nor leave a gap: each tier's lower
	// bound is the previous tier's upper bound plus one pixel
	reg := newRegistry()
	mustRegister(t, reg, "a", "max 100px")
	mustRegister(t, reg, "b", "max 200px")
	mustRegister(t, reg, "c", "max 300px")

	resolved := reg.resolve(Options{})
	wants := map[string]string{
		"a": "screen and (max-width: 100px)",
		"b": "screen and (max-width: 200px) and (min-width: 101px)",
		"c": "screen and (max-width: 300px) and (min-width: 201px)",
	}
	for name, query := range wants {
		if got := resolved[name]; got != query {
			t.Errorf("%s = %q, want %q", name, got, query)
		}
	}
}

func TestResolveFractionalTieBreak(t *testing.T) {
	// em and rem tiers separate by a sub-unit epsilon, a whole unit would
	// swallow real widths between the tiers
	reg := newRegistry()
	mustRegister(t, reg, "small", "max 20em")
	mustRegister(t, reg, "large", "max 40em")

	resolved := reg.resolve(Options{})
	if got, want := resolved["large-and-up"], "screen and (min-width: 20.0001em)"; got != want {
		t.Errorf("large-and-up = %q, want %q", got, want)
	}

	reg = newRegistry()
	mustRegister(t, reg, "lo", "min 10rem")
	mustRegister(t, reg, "hi", "min 30rem")
	resolved = reg.resolve(Options{})
	if got, want := resolved["lo-and-down"], "screen and (max-width: 29.9999rem)"; got != want {
		t.Errorf("lo-and-down = %q, want %q", got, want)
	}
}

func TestResolveOnlyScreenOption(t *testing.T) {
	reg := newRegistry()
	mustRegister(t, reg, "mobile", "max 340px")
	reg.options[optionUseOnly] = true

	resolved := reg.resolve(reg.effectiveOptions(Options{}))
	if got, want := resolved["mobile"], "only screen and (max-width: 340px)"; got != want {
		t.Errorf("mobile = %q, want %q", got, want)
	}
}

func TestResolveOptionOverridesDefault(t *testing.T) {
	// stylesheet options win over configured defaults
	reg := newRegistry()
	mustRegister(t, reg, "mobile", "max 340px")
	reg.options[optionUseOnly] = false

	resolved := reg.resolve(reg.effectiveOptions(Options{OnlyScreen: true}))
	if got, want := resolved["mobile"], "screen and (max-width: 340px)"; got != want {
		t.Errorf("mobile = %q, want %q", got, want)
	}
}

func TestResolveDeclaredNameWinsOverSynthesized(t *testing.T) {
	// an explicitly declared "tab-and-up" keeps its definition even though a
	// typed "tab" with a lower neighbor would synthesize the same name
	reg := newRegistry()
	mustRegister(t, reg, "palm", "max 340px")
	mustRegister(t, reg, "tab", "max 700px")
	mustRegister(t, reg, "tab-and-up", "(hover: hover)")

	resolved := reg.resolve(Options{})
	if got := resolved["tab-and-up"]; got != "(hover: hover)" {
		t.Errorf("tab-and-up = %q, want the declared custom text", got)
	}
	// the typed tier itself is unaffected
	if got, want := resolved["tab"], "screen and (max-width: 700px) and (min-width: 341px)"; got != want {
		t.Errorf("tab = %q, want %q", got, want)
	}
}

func TestResolveCustomVerbatim(t *testing.T) {
	reg := newRegistry()
	mustRegister(t, reg, "landscape", "(orientation: landscape)")
	mustRegister(t, reg, "retina", "screen and (min-resolution: 2dppx)")

	resolved := reg.resolve(Options{OnlyScreen: true, DeviceWidth: true})
	// custom breakpoints carry no prefix and no feature wrapping, whatever
	// the options say
	if got := resolved["landscape"]; got != "(orientation: landscape)" {
		t.Errorf("landscape = %q, want verbatim text", got)
	}
	if got := resolved["retina"]; got != "screen and (min-resolution: 2dppx)" {
		t.Errorf("retina = %q, want verbatim text", got)
	}
}
