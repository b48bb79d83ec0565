package validation

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"aquafund-backend/internal/pkg/apperr"
)

// isValidEmail: /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var addressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// MinFoundedYear is the earliest accepted NGO establishment year.
const MinFoundedYear = 1800

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidAddress checks for 0x followed by 40 hex characters.
func IsValidAddress(addr string) bool {
	return addressRe.MatchString(addr)
}

// IsValidYear accepts MinFoundedYear through the current year.
func IsValidYear(year int, now time.Time) bool {
	return year >= MinFoundedYear && year <= now.Year()
}

// IsPositiveInteger accepts decimal integer strings greater than zero (on-chain amounts).
func IsPositiveInteger(s string) bool {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	return ok && n.Sign() > 0
}

// Checker collects missing and invalid fields for one request body.
type Checker struct {
	missing []string
	invalid []string
}

// Require records name as missing when value is blank.
func (c *Checker) Require(name, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.missing = append(c.missing, name)
		return false
	}
	return true
}

// Check records name as invalid when ok is false.
func (c *Checker) Check(name string, ok bool) {
	if !ok {
		c.invalid = append(c.invalid, name)
	}
}

// Email requires value and checks its format.
func (c *Checker) Email(name, value string) {
	if c.Require(name, value) {
		c.Check(name, IsValidEmail(value))
	}
}

// Address requires value and checks it is a wallet address.
func (c *Checker) Address(name, value string) {
	if c.Require(name, value) {
		c.Check(name, IsValidAddress(value))
	}
}

// Year requires value and checks it is a plausible founding year.
func (c *Checker) Year(name, value string, now time.Time) {
	if !c.Require(name, value) {
		return
	}
	y, err := strconv.Atoi(strings.TrimSpace(value))
	c.Check(name, err == nil && IsValidYear(y, now))
}

// OneOf requires value and checks it is one of allowed.
func (c *Checker) OneOf(name, value string, allowed ...string) {
	if !c.Require(name, value) {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.invalid = append(c.invalid, name)
}

// Err returns a *apperr.ValidationError, or nil when everything passed.
func (c *Checker) Err() error {
	if len(c.missing) == 0 && len(c.invalid) == 0 {
		return nil
	}
	return &apperr.ValidationError{Missing: c.missing, Invalid: c.invalid}
}
