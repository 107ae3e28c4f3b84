package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Normalize converts the date formats seen in exported transaction data
// to "YYYY-MM-DD". The rules are applied in order:
//
//  1. an ISO timestamp is truncated at 'T' and re-normalized
//  2. a dashed value is read as YYYY-MM-DD (a missing day becomes 01)
//  3. a slashed value is read as MM/DD/YYYY
//  4. any "YYYY-M" / "YYYY/M" prefix is extracted, day becomes 01
//  5. a short list of common textual layouts is tried as a last resort
//
// Both ingestion and aggregation go through this one routine so the two
// can never disagree on how a month is derived.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	if i := strings.IndexByte(s, 'T'); i != -1 {
		s = s[:i]
	}

	if strings.Contains(s, "-") {
		return normalizeDashed(s)
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[0]), pad2(parts[1])), nil
		}
	}

	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-01", m[1], pad2(m[2])), nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", raw)
}

// MonthKey reduces a date to its "YYYY-MM" bucket.
func MonthKey(raw string) (string, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return normalized[:7], nil
}

var yearMonthRe = regexp.MustCompile(`(\d{4})[-/](\d{1,2})`)

var fallbackLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"20060102",
}

func normalizeDashed(s string) (string, error) {
	parts := strings.Split(s, "-")
	if len(parts[0]) != 4 {
		return "", fmt.Errorf("unrecognized date %q", s)
	}
	switch {
	case len(parts) >= 3 && parts[1] != "" && parts[2] != "":
		return fmt.Sprintf("%s-%s-%s", parts[0], pad2(parts[1]), pad2(parts[2])), nil
	case len(parts) == 2 && parts[1] != "":
		return fmt.Sprintf("%s-%s-01", parts[0], pad2(parts[1])), nil
	default:
		return "", fmt.Errorf("unrecognized date %q", s)
	}
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
