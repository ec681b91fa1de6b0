package contact

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// UnspecifiedSubcategory is qualified with its category when displayed.
const UnspecifiedSubcategory = "Unspecified/Other"

// FormatName returns the name or "Unknown" when blank.
func FormatName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	return name
}

// FormatAddress joins the non-blank address parts.
func FormatAddress(street, city, state, postalCode string) string {
	commaSeparated := joinNonBlank(", ", street, city, state)
	return joinNonBlank(" ", commaSeparated, postalCode)
}

// FormatDuration renders seconds as "1h 2m 3s", omitting leading zero units.
func FormatDuration(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds / 60) % 60
	secs := seconds - minutes*60 - hours*3600

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if minutes > 0 || hours > 0 {
		fmt.Fprintf(&b, "%dm ", minutes)
	}
	fmt.Fprintf(&b, "%ds", secs)
	return b.String()
}

// ShortSummary truncates a summary at a word boundary so that the result,
// ellipsis included, fits in charLimit runes.
func ShortSummary(summary string, charLimit int, forCase bool) string {
	if strings.TrimSpace(summary) == "" {
		if forCase {
			return "- No case summary -"
		}
		return "- No call summary -"
	}
	runes := []rune(summary)
	if len(runes) <= charLimit {
		return summary
	}
	const omission = "..."
	cut := charLimit - len(omission)
	if cut <= 0 {
		return omission[:charLimit]
	}
	head := string(runes[:cut])
	if idx := strings.LastIndex(head, " "); idx > 0 {
		head = head[:idx]
	}
	head = strings.TrimRight(head, ",. ")
	return head + omission
}

// FormatCategories flattens a category map into display labels, qualifying
// "Unspecified/Other" with its category. Output is ordered by category name.
func FormatCategories(categories map[string][]string) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, category := range names {
		for _, sub := range categories[category] {
			if sub == UnspecifiedSubcategory {
				out = append(out, sub+" - "+category)
				continue
			}
			out = append(out, sub)
		}
	}
	return out
}

// FormatDateTime renders a timestamp as "Jan 2, 2006 / 3:04 pm".
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 / 3:04 pm")
}

// FormatFileNameAtAws drops the upload timestamp prefix from a stored file name.
func FormatFileNameAtAws(name string) string {
	if name == "" {
		return ""
	}
	return name[strings.Index(name, "-")+1:]
}

func joinNonBlank(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
