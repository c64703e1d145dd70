package breakpoints

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"bpcss/css"
)

// Transformer applies the breakpoint transform to stylesheet trees. A single
// Transformer is safe for repeated sequential Transform calls: all per-run
// state lives in a fresh run instance, nothing leaks between sheets.
type Transformer struct {
	opts Options
	log  *zap.Logger
}

// New creates a Transformer with the given defaults. A nil logger disables
// logging.
func New(opts Options, log *zap.Logger) *Transformer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transformer{opts: opts, log: log.Named("breakpoints")}
}

// Transform rewrites sheet in place. On error (invalid or duplicate
// breakpoint declaration) the sheet may be partially mutated and must be
// considered undefined.
func Transform(sheet *css.Stylesheet) error {
	return New(Options{}, nil).Transform(sheet)
}

// Transform rewrites sheet in place: breakpoint and option declarations are
// parsed and stripped, emptied rules pruned (unless KeepEmptyRules is set),
// and every media selector token matching a breakpoint name replaced with
// its resolved feature query. On error the sheet is undefined.
func (t *Transformer) Transform(sheet *css.Stylesheet) error {
	run := &run{reg: newRegistry(), keepEmpty: t.opts.KeepEmptyRules}

	var err error
	if sheet.Rules, err = run.walk(sheet.Rules); err != nil {
		return err
	}

	resolved := run.reg.resolve(run.reg.effectiveOptions(t.opts))
	if len(resolved) == 0 {
		return nil
	}

	media := collectMedia(sheet.Rules, nil)
	for _, rule := range media {
		before := rule.Media
		rule.Media = rewriteSelector(before, resolved)
		if rule.Media != before {
			t.log.Debug("Rewrote media selector", zap.String("from", before), zap.String("to", rule.Media))
		}
	}
	t.log.Debug("Transform complete",
		zap.Int("breakpoints", len(run.reg.byName)),
		zap.Int("mediaRules", len(media)))
	return nil
}

// run holds the state of one Transform invocation.
type run struct {
	reg       *registry
	keepEmpty bool
}

// walk filters one level of the rule tree, children before the parent's own
// declarations so nested definitions are seen first. Declaration filtering
// builds a retained list instead of splicing in place. Returns the kept
// rules; rules emptied by the transform are dropped unless keepEmpty is set.
func (r *run) walk(rules []css.Rule) ([]css.Rule, error) {
	kept := rules[:0]
	for i := range rules {
		rule := &rules[i]

		var err error
		if rule.Rules, err = r.walk(rule.Rules); err != nil {
			return nil, err
		}

		if len(rule.Declarations) > 0 {
			retained := rule.Declarations[:0]
			for _, d := range rule.Declarations {
				consumed, err := r.reg.classify(d.Property, d.Value)
				if err != nil {
					return nil, err
				}
				if !consumed {
					retained = append(retained, d)
				}
			}
			rule.Declarations = retained
		}

		if !r.keepEmpty && rule.IsEmpty() {
			continue
		}
		kept = append(kept, *rule)
	}
	return kept, nil
}

// collectMedia gathers pointers to every media-carrying rule, depth-first.
// Run after walk so pruning cannot invalidate the collected pointers.
func collectMedia(rules []css.Rule, out []*css.Rule) []*css.Rule {
	for i := range rules {
		if rules[i].Media != "" {
			out = append(out, &rules[i])
		}
		out = collectMedia(rules[i].Rules, out)
	}
	return out
}

// mediaToken matches one word of a media selector: a maximal run free of
// whitespace and commas, the separators CSS media syntax combines queries
// with. Matching whole tokens keeps a breakpoint named "mobile" from
// touching "abc-mobile".
var mediaToken = regexp.MustCompile(`[^\s,]+`)

// rewriteSelector replaces every token naming a resolved breakpoint with its
// query, case-insensitively, preserving separators verbatim. Unknown tokens
// (media types, "and", "not", literal feature queries) pass through.
func rewriteSelector(selector string, resolved map[string]string) string {
	return mediaToken.ReplaceAllStringFunc(selector, func(tok string) string {
		if query, ok := resolved[strings.ToLower(tok)]; ok {
			return query
		}
		return tok
	})
}
