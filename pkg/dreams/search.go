package dreams

import "strings"

// Search returns the dreams whose title, description or any tag contains
// query, ignoring case. Order is preserved and a blank query matches nothing.
func Search(dreams []Dream, query string) []Dream {
	results := []Dream{}
	if strings.TrimSpace(query) == "" {
		return results
	}

	q := strings.ToLower(query)
	for _, d := range dreams {
		if matches(d, q) {
			results = append(results, d)
		}
	}
	return results
}

func matches(d Dream, q string) bool {
	if strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Description), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
