package normalization

import "strings"

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ParseProjectStatus folds the legacy display vocabulary
// ("Planning", "In Progress", "Completed") into the canonical
// snake_case set stored in the database.
func ParseProjectStatus(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "planning", "in_progress", "completed":
		return s
	case "inprogress":
		return "in_progress"
	default:
		return s
	}
}
