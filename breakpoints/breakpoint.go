// Package breakpoints rewrites named @media selectors in a stylesheet tree
// into concrete media feature queries, driven by breakpoint variables
// declared in the stylesheet itself.
//
// Breakpoints are declared as ordinary declarations anywhere in the sheet:
//
//	breakpoint-palm: max 340px;
//	breakpoint-desk: min 1000px;
//	breakpoint-landscape: (orientation: landscape);
//	breakpoints-device: true;
//
// and referenced by name in media selectors ("@media palm", "@media
// desk-and-up", "@media palm and landscape"). The declarations are consumed
// by the transform; everything else is left untouched.
package breakpoints

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind distinguishes breakpoint variants.
type Kind int

const (
	KindMax Kind = iota
	KindMin
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindMax:
		return "max"
	case KindMin:
		return "min"
	default:
		return "custom"
	}
}

// Unit is a typed breakpoint's length unit.
type Unit string

const (
	UnitPx  Unit = "px"
	UnitEm  Unit = "em"
	UnitRem Unit = "rem"
)

// tieBreak is the minimal increment separating adjacent tiers: a whole pixel
// for px, a sub-unit epsilon for fractional units.
func (u Unit) tieBreak() float64 {
	if u == UnitPx {
		return 1
	}
	return 0.0001
}

// Breakpoint is a single named breakpoint definition. For typed breakpoints
// (min/max) Value and Unit are set; for custom ones Raw holds the complete
// feature-query expression verbatim.
type Breakpoint struct {
	Name  string
	Kind  Kind
	Value float64
	Unit  Unit
	Raw   string
}

// Point returns the "<value><unit>" form of a typed breakpoint.
func (b *Breakpoint) Point() string {
	return formatNumber(b.Value) + string(b.Unit)
}

var (
	// ErrInvalidBreakpoint marks a breakpoint declaration whose value
	// partially matches the typed grammar but cannot be parsed.
	ErrInvalidBreakpoint = errors.New("invalid breakpoint")
	// ErrDuplicateBreakpoint marks a name registered twice, or two typed
	// breakpoints sharing the same kind and point.
	ErrDuplicateBreakpoint = errors.New("duplicate breakpoint")
)

// registry accumulates breakpoint definitions and options for one run.
type registry struct {
	byName  map[string]*Breakpoint
	typed   []*Breakpoint
	custom  []*Breakpoint
	options map[string]bool
}

func newRegistry() *registry {
	return &registry{
		byName:  make(map[string]*Breakpoint),
		options: make(map[string]bool),
	}
}

// register stores a breakpoint, enforcing name uniqueness across kinds and
// (kind, point) uniqueness among typed breakpoints. Names are case-folded so
// declarations differing only in case collide.
func (r *registry) register(bp *Breakpoint) error {
	bp.Name = strings.ToLower(bp.Name)
	if prev, ok := r.byName[bp.Name]; ok {
		return fmt.Errorf("%w: name %q is already defined (%s)", ErrDuplicateBreakpoint, bp.Name, prev.Kind)
	}
	if bp.Kind == KindCustom {
		r.custom = append(r.custom, bp)
	} else {
		for _, prev := range r.typed {
			if prev.Kind == bp.Kind && prev.Value == bp.Value && prev.Unit == bp.Unit {
				return fmt.Errorf("%w: %q and %q share point \"%s %s\"",
					ErrDuplicateBreakpoint, prev.Name, bp.Name, bp.Kind, bp.Point())
			}
		}
		r.typed = append(r.typed, bp)
	}
	r.byName[bp.Name] = bp
	return nil
}

const (
	varPrefix        = "var-"
	optionPrefix     = "breakpoints-"
	breakpointPrefix = "breakpoint-"
)

// classify inspects one declaration. Breakpoint and option declarations are
// parsed into the registry and reported as consumed; anything else is left
// for the stylesheet. Property names are matched case-insensitively, with an
// optional "var-" prefix.
func (r *registry) classify(property, value string) (bool, error) {
	prop := strings.TrimPrefix(strings.ToLower(property), varPrefix)
	switch {
	case strings.HasPrefix(prop, optionPrefix):
		r.options[strings.TrimPrefix(prop, optionPrefix)] = truthy(value)
		return true, nil
	case strings.HasPrefix(prop, breakpointPrefix):
		bp, err := parseBreakpoint(strings.TrimPrefix(prop, breakpointPrefix), value)
		if err != nil {
			return false, err
		}
		return true, r.register(bp)
	}
	return false, nil
}

// truthy parses an option value: 1/true/yes (any case) enable, everything
// else disables.
func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

var (
	typeToken  = regexp.MustCompile(`^(?i:min|max)$`)
	pointToken = regexp.MustCompile(`^(?i)([0-9.]+)(px|em|rem)$`)
)

// parseBreakpoint parses a breakpoint declaration value. A two-token value
// where one token is min|max and the other a number with unit (either order)
// is a typed breakpoint. A two-token value where only one of the two
// resolves is a configuration mistake and fails; any other value is an
// opaque custom expression, passed through verbatim.
func parseBreakpoint(name, value string) (*Breakpoint, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return &Breakpoint{Name: name, Kind: KindCustom, Raw: value}, nil
	}

	var kindTok string
	var pointMatch []string
	for _, f := range fields {
		switch {
		case typeToken.MatchString(f):
			kindTok = f
		case pointToken.MatchString(f):
			pointMatch = pointToken.FindStringSubmatch(f)
		}
	}

	switch {
	case kindTok != "" && pointMatch != nil:
		v, err := strconv.ParseFloat(pointMatch[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: bad numeric point %q", ErrInvalidBreakpoint, name, pointMatch[1])
		}
		kind := KindMax
		if strings.EqualFold(kindTok, "min") {
			kind = KindMin
		}
		return &Breakpoint{Name: name, Kind: kind, Value: v, Unit: Unit(strings.ToLower(pointMatch[2]))}, nil
	case kindTok != "" || pointMatch != nil:
		return nil, fmt.Errorf("%w %q: want \"min|max <number>px|em|rem\" in either order, got %q",
			ErrInvalidBreakpoint, name, value)
	default:
		return &Breakpoint{Name: name, Kind: KindCustom, Raw: value}, nil
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
