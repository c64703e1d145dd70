package breakpoints

import (
	"fmt"
	"sort"
)

// Options are the run-level switches for query generation. The stylesheet's
// own "breakpoints-device" / "breakpoints-use-only" declarations override
// these defaults for that run.
type Options struct {
	// DeviceWidth switches feature names to min-device-width/max-device-width.
	DeviceWidth bool
	// OnlyScreen prefixes generated queries with "only screen" instead of
	// "screen".
	OnlyScreen bool
	// KeepEmptyRules keeps rules whose declarations were all consumed by the
	// transform instead of pruning them.
	KeepEmptyRules bool
}

// option keys recognized in breakpoints-<key> declarations
const (
	optionDevice  = "device"
	optionUseOnly = "use-only"
)

func (r *registry) effectiveOptions(defaults Options) Options {
	opts := defaults
	if v, ok := r.options[optionDevice]; ok {
		opts.DeviceWidth = v
	}
	if v, ok := r.options[optionUseOnly]; ok {
		opts.OnlyScreen = v
	}
	return opts
}

// resolve computes the final media feature query for every breakpoint name
// and every synthesized <name>-and-up / <name>-and-down compound.
//
// Typed breakpoints of each kind are sorted ascending by numeric value and
// turned into non-overlapping tiers: every max tier after the first excludes
// the previous one with an extra min bound, every min tier before the last
// excludes the next one with an extra max bound. The bound between two
// adjacent tiers is offset by the neighbor's tie-break increment so the two
// tiers never both match.
func (r *registry) resolve(opts Options) map[string]string {
	feature := "width"
	if opts.DeviceWidth {
		feature = "device-width"
	}
	prefix := "screen"
	if opts.OnlyScreen {
		prefix = "only screen"
	}

	clause := func(bound string, v float64, u Unit) string {
		return fmt.Sprintf("(%s-%s: %s%s)", bound, feature, formatNumber(v), u)
	}

	resolved := make(map[string]string, len(r.byName))
	for _, bp := range r.custom {
		resolved[bp.Name] = bp.Raw
	}

	// synthesized compound names yield to explicit declarations: an author
	// who defines "tab-and-up" outright keeps it
	synthesize := func(name, query string) {
		if _, declared := r.byName[name]; declared {
			return
		}
		resolved[name] = query
	}

	var minSet, maxSet []*Breakpoint
	for _, bp := range r.typed {
		if bp.Kind == KindMin {
			minSet = append(minSet, bp)
		} else {
			maxSet = append(maxSet, bp)
		}
	}
	sort.SliceStable(minSet, func(i, j int) bool { return minSet[i].Value < minSet[j].Value })
	sort.SliceStable(maxSet, func(i, j int) bool { return maxSet[i].Value < maxSet[j].Value })

	for i, bp := range maxSet {
		query := prefix + " and " + clause("max", bp.Value, bp.Unit)
		synthesize(bp.Name+"-and-down", query)
		if i > 0 {
			prev := maxSet[i-1]
			lower := clause("min", prev.Value+prev.Unit.tieBreak(), prev.Unit)
			synthesize(bp.Name+"-and-up", prefix+" and "+lower)
			query += " and " + lower
		}
		resolved[bp.Name] = query
	}

	for i, bp := range minSet {
		query := prefix + " and " + clause("min", bp.Value, bp.Unit)
		synthesize(bp.Name+"-and-up", query)
		if i < len(minSet)-1 {
			next := minSet[i+1]
			upper := clause("max", next.Value-next.Unit.tieBreak(), next.Unit)
			synthesize(bp.Name+"-and-down", prefix+" and "+upper)
			query += " and " + upper
		}
		resolved[bp.Name] = query
	}

	return resolved
}
