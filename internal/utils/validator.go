package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeUsername sanitizes a username
func SanitizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// AnyBlank reports whether any of the values is empty after trimming
func AnyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// UsernameFromEmail derives a username from the email local-part with a
// random numeric suffix to dodge collisions.
func UsernameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	return fmt.Sprintf("%s%04d", strings.ToLower(local), rand.Intn(10000))
}
