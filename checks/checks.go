// Package checks provides cheap, regex-driven validity checks against
// the TBN text grammars, for callers (CLI flag validation, interactive
// editors) that want a yes/no answer without paying for a full parse
// and its error-wrapped diagnostics. Grounded on the teacher's own
// checks package, which offers the same kind of boolean sequence
// predicate ahead of a full parse/fold.
package checks

import (
	"regexp"
	"strings"

	"github.com/TimothyStiles/stabletbn/domain"
)

var (
	domainExpr   = `(?:[1-9]\d*\(\s*` + domain.NameRegex + `\*?(?::[A-Za-z0-9_]+)?\s*\)|` + domain.NameRegex + `\*?(?::[A-Za-z0-9_]+)?)`
	domainToken  = regexp.MustCompile(`^` + domain.NameRegex + `\*?(?::[A-Za-z0-9_]+)?$`)
	monomerLine  = regexp.MustCompile(`^` + domainExpr + `(?:\s+` + domainExpr + `)*(?:\s+>\s*` + domain.NameRegex + `)?$`)
	tbnLine      = regexp.MustCompile(`^(?:(?:inf|[1-9]\d*)\[\s*.+\s*\]|.+)$`)
	constraintKW = regexp.MustCompile(`^(?i)(NO\s+OPTIMIZE|OPTIMIZE|NO\s+SORT|SORT|MAX\s+ENERGY|MIN\s+ENERGY|MAX\s+MERGES|MIN\s+MERGES|MAX\s+POLYMERS|MIN\s+POLYMERS|BOND\s+WEIGHT)\b`)
)

// IsValidDomainToken reports whether token could be parsed by
// domain.Parse: a bare identifier, optionally starred, optionally
// carrying a ":tag" suffix.
func IsValidDomainToken(token string) bool {
	return domainToken.MatchString(strings.TrimSpace(token))
}

// IsComplementary reports whether a and b are valid domain tokens
// naming the same identifier with opposite starredness.
func IsComplementary(a, b string) bool {
	da, err := domain.Parse(a)
	if err != nil {
		return false
	}
	db, err := domain.Parse(b)
	if err != nil {
		return false
	}
	return da.Equal(db.Complement())
}

// IsValidMonomerLine reports whether line has the shape
// "domain domain ... [> name]", the monomer-definition grammar
// monomer.Registry.Parse expects.
func IsValidMonomerLine(line string) bool {
	return monomerLine.MatchString(strings.TrimSpace(line))
}

// IsValidTbnLine reports whether line matches the same outer line shape
// tbn.Parse accepts: a leading count with the monomer in brackets, or any
// other non-empty text. The monomer text itself is not validated, so
// every line passes; use IsValidMonomerLine for the monomer part.
func IsValidTbnLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	return tbnLine.MatchString(line)
}

// IsValidConstraintKeyword reports whether line begins with one of the
// directive keywords constraints.FromString recognizes. It does not
// validate the argument that follows the keyword.
func IsValidConstraintKeyword(line string) bool {
	return constraintKW.MatchString(strings.TrimSpace(line))
}
