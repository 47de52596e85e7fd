package dreams

import "strings"

// ParseTags splits a comma-separated tag list, trimming each tag and
// dropping empty ones. Duplicates are kept in input order.
func ParseTags(csv string) []string {
	tags := []string{}
	for _, tag := range strings.Split(csv, ",") {
		t := strings.TrimSpace(tag)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
