package validation

import (
	"regexp"
	"strings"
)

const (
	schemeSeparator = "://"
	defaultScheme   = "https://"
)

var schemePrefixes = []string{"http://", "https://"}

// domainPattern matches bare domain names like "jobs.acme-corp.io" or "xn--bcher-kva.de":
// alphanumeric labels that may contain hyphens but not start or end with one, ending in an
// alphabetic TLD of two or more letters.
var domainPattern = regexp.MustCompile(`^([A-Za-z0-9]+(-+[A-Za-z0-9]+)*\.)+[A-Za-z]{2,}$`)

// IsValidURL reports whether link is acceptable as an application link.
// A blank link is valid because the field is optional.
func IsValidURL(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return true
	}
	if hasScheme(link) {
		_, rest, _ := strings.Cut(link, schemeSeparator)
		return rest != "" && strings.Contains(rest, ".")
	}
	return domainPattern.MatchString(link)
}

// FormatURL normalizes a link for storage. Blank links become nil and
// links without a scheme get https:// prepended.
func FormatURL(link string) *string {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	if !hasScheme(link) {
		link = defaultScheme + link
	}
	return &link
}

func hasScheme(link string) bool {
	for _, p := range schemePrefixes {
		if strings.HasPrefix(link, p) {
			return true
		}
	}
	return false
}
