// Package domain provides the Domain type: a labeled binding site that may
// carry a star, and its complement.
package domain

import (
	"fmt"
	"regexp"

	"github.com/TimothyStiles/stabletbn/staberr"
)

// NameRegex matches a bare domain identifier: alphanumerics and underscores.
const NameRegex = `[A-Za-z0-9_]+`

var tokenPattern = regexp.MustCompile(`^(` + NameRegex + `)(\*?)(?::[A-Za-z0-9_]+)?$`)

// Domain is an identifier plus a boolean starred flag. Two domains are
// complementary iff they share an identifier and differ in starredness.
// Domain is immutable; the zero value is not meaningful and should never
// be constructed directly, use New or Parse.
type Domain struct {
	name    string
	starred bool
}

// New builds a Domain directly from a name and starredness, skipping text
// parsing. The name must already be a valid identifier.
func New(name string, starred bool) Domain {
	return Domain{name: name, starred: starred}
}

// Parse parses a single domain token, e.g. "a", "a*", or "a:tag" (the
// trailing ":tag" is accepted for backwards compatibility and ignored).
func Parse(token string) (Domain, error) {
	m := tokenPattern.FindStringSubmatch(token)
	if m == nil {
		return Domain{}, fmt.Errorf("%w: could not parse domain %q, format must be %s", staberr.ErrInvalidInput, token, Regex())
	}
	return Domain{name: m[1], starred: m[2] == "*"}, nil
}

// Regex describes the grammar accepted by Parse, used in error messages.
func Regex() string {
	return NameRegex + `(?:\*|)(?::[A-Za-z0-9_]+|)`
}

// String renders the domain, e.g. "a" or "a*".
func (d Domain) String() string {
	if d.starred {
		return d.name + "*"
	}
	return d.name
}

// Name returns the bare identifier, ignoring star.
func (d Domain) Name() string { return d.name }

// IsStarred reports whether the domain carries a star.
func (d Domain) IsStarred() bool { return d.starred }

// Complement returns the domain with the star flipped.
func (d Domain) Complement() Domain {
	return Domain{name: d.name, starred: !d.starred}
}

// Equal reports (identifier, starred) equality.
func (d Domain) Equal(other Domain) bool {
	return d.name == other.name && d.starred == other.starred
}

// Less orders by identifier, with unstarred sorting before starred.
func (d Domain) Less(other Domain) bool {
	if d.name != other.name {
		return d.name < other.name
	}
	return !d.starred && other.starred
}
