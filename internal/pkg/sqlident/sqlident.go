// Package sqlident validates SQL identifiers before they are interpolated
// into a statement. Only table, schema and database names pass through here;
// values are always bound parameters.
package sqlident

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidIdentifier is returned for names outside the allow-list.
var ErrInvalidIdentifier = errors.New("invalid SQL identifier")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate returns name unchanged if it is a plain identifier.
func Validate(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return name, nil
}

// Qualified validates each part and joins them with dots.
func Qualified(parts ...string) (string, error) {
	out := ""
	for i, p := range parts {
		if _, err := Validate(p); err != nil {
			return "", err
		}
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out, nil
}
