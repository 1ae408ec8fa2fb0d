package handler

import "regexp"

// Input rules enforced before any mutation reaches the database. Kept in
// one place so register and profile update agree on what is acceptable.

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
)

func validEmail(s string) bool { return emailRe.MatchString(s) }

// usernameIssues returns every rule the candidate violates, empty when valid.
func usernameIssues(s string) []string {
	var issues []string
	if len(s) < 3 {
		issues = append(issues, "Username must be at least 3 characters")
	}
	if len(s) > 50 {
		issues = append(issues, "Username must be less than 50 characters")
	}
	if !usernameRe.MatchString(s) {
		issues = append(issues, "Username can only contain letters, numbers, underscores, and hyphens")
	}
	return issues
}

// passwordIssues returns every strength rule the candidate violates.
func passwordIssues(s string) []string {
	var issues []string
	if len(s) < 8 {
		issues = append(issues, "Password must be at least 8 characters")
	}
	if !upperRe.MatchString(s) {
		issues = append(issues, "Password must contain uppercase letters")
	}
	if !lowerRe.MatchString(s) {
		issues = append(issues, "Password must contain lowercase letters")
	}
	if !digitRe.MatchString(s) {
		issues = append(issues, "Password must contain numbers")
	}
	return issues
}
