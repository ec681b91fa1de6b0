package definition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Present renders a stored form value for display. lookup holds translated
// strings; missing keys fall back to the raw value.
func Present(field Field, value any, lookup map[string]string) string {
	switch f := field.(type) {
	case *MixedCheckbox:
		if value == nil {
			return translate(lookup, "Unknown", "Unknown")
		}
		return presentScalar(value, lookup)
	case *ListboxMultiselect:
		if values, ok := asStrings(value); ok {
			return presentList(values, lookup)
		}
		return presentScalar(value, lookup)
	case *Input, *NumericInput, *Email, *Textarea, *Select, *DependentSelect,
		*Checkbox, *DateInput, *TimeInput, *FileUpload:
		return presentScalar(value, lookup)
	case nil:
		if values, ok := asStrings(value); ok {
			return presentList(values, lookup)
		}
		return presentScalar(value, lookup)
	default:
		panic(fmt.Sprintf("definition: unhandled field kind %T", f))
	}
}

// PresentedField is one labelled, display-ready value of a form entry.
type PresentedField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// PresentEntry renders a stored form in the order of its field list. Values
// the field list does not declare are dropped. With no field list every
// value is shown under its raw key, sorted.
func PresentEntry(fields FieldList, form map[string]any, lookup map[string]string) []PresentedField {
	if len(fields) == 0 {
		keys := make([]string, 0, len(form))
		for k := range form {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]PresentedField, 0, len(keys))
		for _, k := range keys {
			out = append(out, PresentedField{Name: k, Label: k, Value: Present(nil, form[k], lookup)})
		}
		return out
	}

	out := make([]PresentedField, 0, len(fields))
	for _, f := range fields {
		label := f.FieldLabel()
		if label == "" {
			label = f.FieldName()
		}
		out = append(out, PresentedField{
			Name:  f.FieldName(),
			Label: translate(lookup, label, label),
			Value: Present(f, form[f.FieldName()], lookup),
		})
	}
	return out
}

func presentScalar(value any, lookup map[string]string) string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return translate(lookup, "SectionEntry-Yes", "true")
		}
		return translate(lookup, "SectionEntry-No", "false")
	}
	return "-"
}

func presentList(values []string, lookup map[string]string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = translate(lookup, v, v)
	}
	return strings.Join(out, "\n")
}

func asStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	}
	return nil, false
}

func translate(lookup map[string]string, key, fallback string) string {
	if s, ok := lookup[key]; ok && s != "" {
		return s
	}
	return fallback
}
