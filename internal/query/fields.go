package query

import "strings"

// SizeField is the synthetic field resolving to "WIDTHxHEIGHT".
const SizeField = "Size"

// AllFields selects every default field in ParseFields.
const AllFields = "ALL"

// DefaultFields are the fields a filter searches unless told otherwise.
var DefaultFields = []string{
	"Positive Prompt",
	"Negative Prompt",
	"Steps",
	"Sampler",
	"Schedule type",
	"CFG scale",
	SizeField,
	"Model",
}

// ParseFields turns a comma separated field list into field names. An empty
// list or "ALL" selects DefaultFields. Names matching a default field
// case-insensitively take its canonical spelling; other names are kept as
// given so arbitrary text chunk keys can be searched.
func ParseFields(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" || strings.EqualFold(list, AllFields) {
		return append([]string(nil), DefaultFields...)
	}

	var fields []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, AllFields) {
			return append([]string(nil), DefaultFields...)
		}
		name = canonical(name)
		if !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}
	return fields
}

func canonical(name string) string {
	for _, f := range DefaultFields {
		if strings.EqualFold(f, name) {
			return f
		}
	}
	return name
}
