package metric

import (
	"fmt"
	"strings"
)

// ParseError distinguishes the three ways a metric spec string can be
// rejected, so callers (the CLI, the config loader) can report a precise
// diagnostic instead of a bare string.
type ParseError struct {
	Kind ParseErrorKind
	Spec string
	Msg  string
}

type ParseErrorKind int

const (
	UnknownMetric ParseErrorKind = iota
	InvalidSyntax
	DuplicateMetric
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("metric spec %q: %s", e.Spec, e.Msg)
}

// Parsed is one fully resolved metric request: an ID, the set of
// aggregations asked for it, and the formatter that should render its
// reported value once reduced.
type Parsed struct {
	ID          ID
	Aggregations Set
	Formatter   Formatter
}

// key is the column identity used for duplicate detection: the same metric
// requested twice with the same aggregation (whether from one spec's "+agg"
// tokens or from two separate spec strings) is a duplicate.
type key struct {
	id  ID
	agg Aggregation
}

// SpecParser turns a list of -m/--metric flag values into an ordered,
// duplicate-free list of Parsed metrics. A single spec can expand to many
// metrics via a glob segment ("io:*", "*:size", "map:*:count").
type SpecParser struct {
	seen    map[key]bool
	results []Parsed
}

// NewSpecParser returns an empty parser ready to accept specs in order.
func NewSpecParser() *SpecParser {
	return &SpecParser{seen: make(map[key]bool)}
}

// Parse consumes every spec in order and returns the accumulated, ordered
// metric list, or the first error encountered.
func Parse(specs []string) ([]Parsed, error) {
	p := NewSpecParser()
	for _, spec := range specs {
		if err := p.Add(spec); err != nil {
			return nil, err
		}
	}
	return p.results, nil
}

// Add parses one spec string of the grammar
// "name(-raw)?[+agg]*[/unit]", where name may contain a single glob segment
// ("*") standing in for one colon-separated component (a prefix, a suffix,
// or an interior segment), and agg is one of min|max|ratio. The raw reading
// is part of the result by default; a trailing "-raw" on the name suppresses
// it, which is only meaningful alongside at least one "+agg" token.
func (p *SpecParser) Add(spec string) error {
	rest := spec
	unit := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		unit = rest[i+1:]
		rest = rest[:i]
	}

	parts := strings.Split(rest, "+")
	namePattern := parts[0]

	rawSuppressed := strings.HasSuffix(namePattern, "-raw")
	if rawSuppressed {
		namePattern = strings.TrimSuffix(namePattern, "-raw")
	}
	if namePattern == "" {
		return &ParseError{InvalidSyntax, spec, "missing metric name"}
	}

	aggs := NewSet()
	if !rawSuppressed {
		aggs.Add(AggNone)
	}
	for _, tok := range parts[1:] {
		agg, ok := parseAggToken(tok)
		if !ok {
			return &ParseError{InvalidSyntax, spec, fmt.Sprintf("unknown aggregation %q", tok)}
		}
		aggs.Add(agg)
	}
	if aggs.Empty() {
		return &ParseError{InvalidSyntax, spec, "-raw with no aggregation requests nothing"}
	}

	formatter := Formatter(nil)
	if unit != "" {
		f, ok := LookupUnit(unit)
		if !ok {
			return &ParseError{InvalidSyntax, spec, fmt.Sprintf("unknown unit %q", unit)}
		}
		formatter = f
	}

	ids, err := expandPattern(namePattern, spec)
	if err != nil {
		return err
	}

	for _, id := range ids {
		f := formatter
		if f == nil {
			f = id.DefaultFormatter()
		}
		for _, agg := range aggs.Ordered() {
			k := key{id, agg}
			if p.seen[k] {
				return &ParseError{DuplicateMetric, spec, fmt.Sprintf("%s%s requested more than once", id, agg.Suffix())}
			}
			p.seen[k] = true
		}
		p.results = append(p.results, Parsed{ID: id, Aggregations: aggs, Formatter: f})
	}
	return nil
}

func parseAggToken(tok string) (Aggregation, bool) {
	switch tok {
	case "min":
		return AggMin, true
	case "max":
		return AggMax, true
	case "ratio":
		return AggRatio, true
	default:
		return 0, false
	}
}

// expandPattern resolves a single name pattern, which is either an exact
// metric name or contains exactly one "*" glob segment, to the list of
// matching IDs in declaration order. A pattern with no matches at all is an
// UnknownMetric error; a literal exact name match is the common case.
func expandPattern(pattern, spec string) ([]ID, error) {
	if !strings.Contains(pattern, "*") {
		id, ok := Lookup(pattern)
		if !ok {
			return nil, &ParseError{UnknownMetric, spec, fmt.Sprintf("unknown metric %q", pattern)}
		}
		return []ID{id}, nil
	}

	patternSegs := strings.Split(pattern, ":")
	var matches []ID
	for _, id := range All() {
		if globMatches(patternSegs, strings.Split(id.String(), ":")) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 0 {
		return nil, &ParseError{UnknownMetric, spec, fmt.Sprintf("glob %q matched no metric", pattern)}
	}
	return matches, nil
}

// globMatches implements the limited glob grammar: exactly one segment of
// the pattern may be "*", matching any single segment of the candidate name
// at the same position, provided both have the same segment count.
func globMatches(pattern, candidate []string) bool {
	if len(pattern) != len(candidate) {
		return false
	}
	for i, seg := range pattern {
		if seg == "*" {
			continue
		}
		if seg != candidate[i] {
			return false
		}
	}
	return true
}
