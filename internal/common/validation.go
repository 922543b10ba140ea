// Package common holds small, dependency-free helpers shared by the installer
// steps: input validation for operator-supplied values and version parsing for
// prerequisite checks.
package common

import (
	"fmt"
	"net/mail"
	"strings"
)

// MinPasswordLength is the shortest admin password the wizard accepts
const MinPasswordLength = 8

// ValidateNotEmpty rejects empty and whitespace-only values
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// ValidateDomain checks RFC 1035 label rules: 1-63 characters of letters,
// digits and inner hyphens, 253 characters overall. Callers treat a failure
// as a warning since domains are otherwise free-form.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}

	if len(domain) > 253 {
		return fmt.Errorf("domain name too long: %s", domain)
	}

	for _, part := range strings.Split(domain, ".") {
		if part == "" {
			return fmt.Errorf("invalid domain (empty label): %s", domain)
		}
		if len(part) > 63 {
			return fmt.Errorf("domain label too long: %s", part)
		}

		for i, c := range part {
			if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-') {
				return fmt.Errorf("invalid character in domain: %s", domain)
			}
			if c == '-' && (i == 0 || i == len(part)-1) {
				return fmt.Errorf("domain label cannot start or end with hyphen: %s", part)
			}
		}
	}

	return nil
}

// ValidateEmail validates a bare email address such as admin@example.com.
// Display names ("Admin <admin@example.com>") are rejected because the
// registration API expects the address alone.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address: %s", email)
	}

	if strings.HasPrefix(email, "@") {
		return fmt.Errorf("email must have a name before '@': %s", email)
	}

	return nil
}

// ValidatePassword enforces the minimum admin password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
