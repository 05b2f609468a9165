package detect

import "strings"

var knownSiteNames = map[string]string{
	"linkedin.com":     "LinkedIn",
	"facebook.com":     "Facebook",
	"twitter.com":      "Twitter",
	"instagram.com":    "Instagram",
	"github.com":       "GitHub",
	"google.com":       "Google",
	"amazon.com":       "Amazon",
	"netflix.com":      "Netflix",
	"youtube.com":      "YouTube",
	"indeed.com":       "Indeed",
	"glassdoor.com":    "Glassdoor",
	"monster.com":      "Monster",
	"ziprecruiter.com": "ZipRecruiter",
}

// SiteName returns a display name for a domain, falling back to the domain
// with its first letter upper-cased.
func SiteName(domain string) string {
	lower := strings.ToLower(domain)
	for key, name := range knownSiteNames {
		if strings.Contains(lower, key) {
			return name
		}
	}
	if domain == "" {
		return domain
	}
	return strings.ToUpper(domain[:1]) + domain[1:]
}
