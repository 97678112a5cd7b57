package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/tubecorr/internal/models"
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+)H`)
	minutesPattern = regexp.MustCompile(`(\d+)M`)
	secondsPattern = regexp.MustCompile(`(\d+)S`)
)

// CleanText collapses internal whitespace runs to a single space and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseDate coerces partial-precision dates to YYYY-MM-DD.
//
// "2020" becomes "2020-01-01", "2020-05" becomes "2020-05-01" and anything of ten or more
// characters is cut to its first ten. Every other shape yields "".
func ParseDate(s string) string {
	r := []rune(s)
	switch n := len(r); {
	case n == 4:
		return s + "-01-01"
	case n == 7:
		return s + "-01"
	case n >= 10:
		return string(r[:10])
	default:
		return ""
	}
}

// ParseDateTime strips the zone designator and fractional seconds from an ISO timestamp.
func ParseDateTime(s string) string {
	if !strings.Contains(s, "T") {
		return s
	}
	s = strings.ReplaceAll(s, "Z", "")
	return strings.SplitN(s, ".", 2)[0]
}

// ParseDuration converts a compact duration code such as PT1H2M3S to seconds.
//
// Each component is optional and absent components contribute 0. A code whose total would
// overflow an int yields 0.
func ParseDuration(code string) int {
	code = strings.ReplaceAll(code, "PT", "")
	if code == "" {
		return 0
	}

	total := 0
	for _, c := range []struct {
		pattern *regexp.Regexp
		unit    int
	}{
		{hoursPattern, 3600},
		{minutesPattern, 60},
		{secondsPattern, 1},
	} {
		m := c.pattern.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > (math.MaxInt-total)/c.unit {
			return 0
		}
		total += n * c.unit
	}
	return total
}

// Truncate cuts s to at most n characters (runes).
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// toInt coerces v to an integer. Absent fields take def; null, non-numeric and
// non-finite values take 0. Floats truncate toward zero.
func toInt(v models.Value, def int64) int64 {
	if !v.Present() {
		return def
	}

	switch x := v.Raw().(type) {
	case nil:
		return 0
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return truncFloat(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return int64(x)
	case int64:
		return x
	case float64:
		return truncFloat(x)
	default:
		return 0
	}
}

func truncFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// toFloat coerces v to a finite float64 with the same defaulting rules as toInt.
func toFloat(v models.Value, def float64) float64 {
	if !v.Present() {
		return def
	}

	var f float64
	switch x := v.Raw().(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toString coerces scalars to their string form. Absent, null, lists and objects yield "".
func toString(v models.Value) string {
	switch x := v.Raw().(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int, int64, float64:
		return fmt.Sprint(x)
	default:
		return ""
	}
}

// toBool coerces v to a boolean. Strings are parsed with [strconv.ParseBool].
func toBool(v models.Value, def bool) bool {
	if !v.Present() {
		return def
	}

	switch x := v.Raw().(type) {
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return err == nil && b
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return false
	}
}

// toStrings coerces a list of scalars to strings. Objects with a "name" key contribute the name
// (the shape of Spotify artist objects); null and nested lists are dropped. A bare string is a
// one-element list.
func toStrings(v models.Value) []string {
	var items []any
	switch x := v.Raw().(type) {
	case []any:
		items = x
	case []string:
		return append([]string(nil), x...)
	case string:
		if x == "" {
			return []string{}
		}
		return []string{x}
	default:
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case map[string]any:
			if name, ok := x["name"].(string); ok {
				out = append(out, name)
			}
		case nil, []any:
		default:
			out = append(out, toString(models.V(x)))
		}
	}
	return out
}

// firstString returns the first non-empty coerced string among vs.
func firstString(vs ...models.Value) string {
	for _, v := range vs {
		if s := toString(v); s != "" {
			return s
		}
	}
	return ""
}
