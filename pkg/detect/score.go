package detect

import "strings"

// Score computes the relevance of a form field to stored vault data. Every
// rule is an independent additive bonus over lower-cased substring matches;
// identical inputs always produce identical scores. A score of zero means
// the field is never surfaced to the user.
func Score(name, fieldType, accept, visibleText string) int {
	nameLower := strings.ToLower(name)
	acceptLower := strings.ToLower(accept)
	textLower := strings.ToLower(visibleText)

	score := 0

	// File upload fields get highest priority.
	if fieldType == "file" {
		score += 10
		if containsAny(acceptLower, "pdf", "doc", "docx") {
			score += 5
		}
	}

	if containsAny(nameLower, "resume", "cv", "curriculum", "vitae") {
		score += 8
	}
	if containsAny(nameLower, "document", "file", "upload", "attachment") {
		score += 6
	}
	if containsAny(nameLower, "name", "fullname") {
		score += 6
	}
	if containsAny(nameLower, "email", "mail") {
		score += 5
	}
	if containsAny(nameLower, "phone", "telephone") {
		score += 4
	}
	if containsAny(nameLower, "address", "location") {
		score += 3
	}
	if containsAny(nameLower, "experience", "work", "career", "job") {
		score += 4
	}
	if containsAny(nameLower, "education", "skills", "qualification", "degree") {
		score += 3
	}
	if containsAny(nameLower, "portfolio", "profile", "bio", "description") {
		score += 3
	}
	if containsAny(textLower, "resume", "cv", "upload", "document") {
		score += 2
	}
	if containsAny(nameLower, "drop", "drag") || containsAny(textLower, "drop", "drag") {
		score += 3
	}

	return score
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
