package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/octobees/accounts/api/internal/credentials"
)

// ErrInvalidInput marks a request rejected before it reaches storage.
var ErrInvalidInput = errors.New("invalid input")

const (
	minUsernameLen   = 3
	maxUsernameLen   = 64
	minPasswordLen   = 8
	maxEmailLocalLen = 64
	maxEmailLen      = 320
)

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	emailLocalPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+$`)
	idnaProfile       = idna.Lookup
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	switch {
	case username == "":
		return "", invalid("username is required")
	case len(username) < minUsernameLen || len(username) > maxUsernameLen:
		return "", invalid("username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	case !usernamePattern.MatchString(username):
		return "", invalid("username may only contain letters, digits, '.', '_' and '-'")
	}
	return username, nil
}

// normalizeEmail lower-cases the address and converts the domain to its ASCII form.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", invalid("email is required")
	}
	if len(email) > maxEmailLen {
		return "", invalid("email is too long")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") || !emailLocalPattern.MatchString(local) {
		return "", invalid("email is malformed")
	}
	if len(local) > maxEmailLocalLen {
		return "", invalid("email local part must be at most %d characters", maxEmailLocalLen)
	}

	ascii, err := idnaProfile.ToASCII(domain)
	if err != nil || !isDomainValid(ascii) {
		return "", invalid("email domain is invalid")
	}

	// Punycode can grow the domain well past the input length.
	normalized := local + "@" + ascii
	if len(normalized) > maxEmailLen {
		return "", invalid("email is too long")
	}
	return normalized, nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return invalid("password is required")
	}
	if len(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > credentials.MaxPasswordBytes {
		return invalid("password must be at most %d bytes", credentials.MaxPasswordBytes)
	}
	return nil
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return len(parts[len(parts)-1]) >= 2
}
