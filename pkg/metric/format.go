package metric

import "fmt"

// Formatter renders a raw sample value (already reduced by an aggregation)
// as a display string. Ratio values are always passed through RatioFormatter
// regardless of the metric's own default, since a ratio is always a
// per-mille rate rather than a raw reading.
type Formatter func(value int64) string

func identityFormatter(value int64) string {
	return fmt.Sprintf("%d", value)
}

// sizeFormatter renders a byte count the way the original's size() does:
// decimal (1000-based), a single-letter SI prefix with a leading space, and
// the bare number below 1000 with no suffix at all.
func sizeFormatter(value int64) string {
	switch {
	case value > -1000 && value < 1000:
		return fmt.Sprintf("%d", value)
	case value > -1_000_000 && value < 1_000_000:
		return kiloFormatter(value)
	case value > -1_000_000_000 && value < 1_000_000_000:
		return megaFormatter(value)
	case value > -1_000_000_000_000 && value < 1_000_000_000_000:
		return gigaFormatter(value)
	default:
		return teraFormatter(value)
	}
}

func kibiFormatter(value int64) string { return fmt.Sprintf("%.1f Ki", float64(value)/1024) }
func mebiFormatter(value int64) string { return fmt.Sprintf("%.1f Mi", float64(value)/(1024*1024)) }
func gibiFormatter(value int64) string {
	return fmt.Sprintf("%.1f Gi", float64(value)/(1024*1024*1024))
}
func tebiFormatter(value int64) string {
	return fmt.Sprintf("%.1f Ti", float64(value)/(1024*1024*1024*1024))
}

func kiloFormatter(value int64) string { return fmt.Sprintf("%.1f K", float64(value)/1_000) }
func megaFormatter(value int64) string { return fmt.Sprintf("%.1f M", float64(value)/1_000_000) }
func gigaFormatter(value int64) string { return fmt.Sprintf("%.1f G", float64(value)/1_000_000_000) }
func teraFormatter(value int64) string {
	return fmt.Sprintf("%.1f T", float64(value)/1_000_000_000_000)
}

// durationFormatter renders a millisecond count as a human duration
// ("1m 15s", "3h 5m 10s"), the unit every TimeXxx metric is sampled in.
// Sub-second resolution is dropped, matching the original's seconds-based
// duration() shape.
func durationFormatter(ms int64) string {
	neg := ms < 0
	if neg {
		ms = -ms
	}
	sign := ""
	if neg {
		sign = "-"
	}
	totalSeconds := ms / 1000
	switch {
	case totalSeconds < 60:
		return fmt.Sprintf("%s%ds", sign, totalSeconds)
	case totalSeconds < 3600:
		return fmt.Sprintf("%s%dm %ds", sign, totalSeconds/60, totalSeconds%60)
	default:
		hours := totalSeconds / 3600
		minutes := (totalSeconds % 3600) / 60
		seconds := totalSeconds % 60
		return fmt.Sprintf("%s%dh %dm %ds", sign, hours, minutes, seconds)
	}
}

// RatioFormatter renders a PercentFactor-scaled ratio as a percentage,
// matching the original's documented behavior of letting values run above
// 100% rather than clamping them.
func RatioFormatter(permille int64) string {
	pct := float64(permille) / float64(PercentFactor) * 100
	if permille > PercentFactor {
		return fmt.Sprintf(">%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// unitFormatters maps the "/unit" override suffix from a metric spec to a
// formatter, so "mem:rss/gi" and "io:read:count/sz" can both be requested
// explicitly regardless of the metric's own default.
var unitFormatters = map[string]Formatter{
	"ki": kibiFormatter,
	"mi": mebiFormatter,
	"gi": gibiFormatter,
	"ti": tebiFormatter,
	"k":  kiloFormatter,
	"m":  megaFormatter,
	"g":  gigaFormatter,
	"t":  teraFormatter,
	"sz": sizeFormatter,
	"du": durationFormatter,
}

// LookupUnit resolves an explicit "/unit" override to a Formatter.
func LookupUnit(unit string) (Formatter, bool) {
	f, ok := unitFormatters[unit]
	return f, ok
}
