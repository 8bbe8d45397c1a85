// Package monomer provides the Monomer type: a non-empty, named multiset
// of domains. Monomer names must be unique within a Registry; two
// monomers sharing a name must carry identical compositions.
package monomer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/TimothyStiles/stabletbn/domain"
	"github.com/TimothyStiles/stabletbn/multiset"
	"github.com/TimothyStiles/stabletbn/staberr"
	"lukechampine.com/blake3"
)

// monomerData holds a monomer's domain composition behind a pointer, so
// that Monomer itself stays a comparable value (usable as a map key and
// as a PositiveMultiset element type) despite PositiveMultiset being
// backed by a Go map internally. Registry.New interns by name, so two
// Monomer values sharing a name always share a data pointer: pointer
// identity and name identity coincide.
type monomerData struct {
	counts multiset.PositiveMultiset[domain.Domain]
}

// Monomer is a non-empty multiset of domains with a name.
type Monomer struct {
	data *monomerData
	name string
}

// Name returns the monomer's process/registry-wide unique name.
func (m Monomer) Name() string { return m.name }

// String renders the monomer as its name.
func (m Monomer) String() string { return m.name }

// Equal compares monomers by name; a Registry guarantees two monomers
// sharing a name also share a composition.
func (m Monomer) Equal(other Monomer) bool { return m.name == other.name }

// Less orders monomers lexicographically by name, for sort-stable output.
func (m Monomer) Less(other Monomer) bool { return m.name < other.name }

// NetCount returns (count of d) - (count of d's complement); the sign
// indicates an excess (positive) or deficit (negative) of that
// domain-flavor within the monomer.
func (m Monomer) NetCount(d domain.Domain) int {
	return int(m.data.counts.Get(d)) - int(m.data.counts.Get(d.Complement()))
}

// UnstarredDomainTypes returns the set of domain identifiers appearing in
// the monomer, regardless of star, sorted by identifier.
func (m Monomer) UnstarredDomainTypes() []domain.Domain {
	seen := map[domain.Domain]bool{}
	for _, d := range m.data.counts.Keys() {
		unstarred := d
		if d.IsStarred() {
			unstarred = d.Complement()
		}
		seen[unstarred] = true
	}
	out := make([]domain.Domain, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// AsExplicitList flattens the monomer into one entry per domain occurrence,
// sorted by domain for determinism.
func (m Monomer) AsExplicitList() []domain.Domain {
	keys := multiset.SortedKeys(m.data.counts, domain.Domain.Less)
	out := make([]domain.Domain, 0, m.data.counts.Total())
	for _, d := range keys {
		count := m.data.counts.Get(d)
		for i := multiset.Count(0); i < count; i++ {
			out = append(out, d)
		}
	}
	return out
}

// composition renders the domain multiset portion of a monomer string,
// e.g. "2(a) b*", used both for the default name and for String().
func composition(counts multiset.PositiveMultiset[domain.Domain]) string {
	keys := multiset.SortedKeys(counts, domain.Domain.Less)
	parts := make([]string, 0, len(keys))
	for _, d := range keys {
		count := counts.Get(d)
		if count > 1 {
			parts = append(parts, fmt.Sprintf("%d(%s)", count, d))
		} else {
			parts = append(parts, d.String())
		}
	}
	return strings.Join(parts, " ")
}

// Registry interns monomer compositions and enforces name uniqueness. It
// is scoped to a TBN (or to a test) rather than being a package global, so
// that multiple independent TBNs never collide on monomer names. This
// mirrors Design Notes §9's preference for a scoped interner over the
// original's process-wide class-level dictionary.
type Registry struct {
	mu     sync.Mutex
	byName map[string]Monomer
	byHash map[string]string // composition hash -> name it was first registered under; recorded, not consulted by New
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]Monomer{},
		byHash: map[string]string{},
	}
}

// New interns a monomer with the given domain composition and optional
// name (pass "" to auto-derive a name from the composition, bracketed as
// "[...]", matching the Python default). Creating a monomer with an
// empty composition, or re-using a name with a different composition,
// fails.
func (r *Registry) New(counts map[domain.Domain]multiset.Count, name string) (Monomer, error) {
	if len(counts) == 0 {
		return Monomer{}, fmt.Errorf("%w: attempted to create an empty monomer", staberr.ErrInvalidInput)
	}
	ms, err := multiset.New(counts, false)
	if err != nil {
		return Monomer{}, err
	}

	finalName := strings.TrimSpace(name)
	if name == "" {
		finalName = "[" + composition(ms) + "]"
	} else if finalName == "" {
		return Monomer{}, fmt.Errorf("%w: cannot give whitespace string as a name for a monomer", staberr.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	compHash := hashComposition(ms)
	if existing, ok := r.byName[finalName]; ok {
		if hashComposition(existing.data.counts) != compHash || !sameComposition(existing.data.counts, ms) {
			return Monomer{}, fmt.Errorf("%w: cannot have two distinct monomers with the same name: %s", staberr.ErrInvalidInput, finalName)
		}
		return existing, nil
	}

	m := Monomer{data: &monomerData{counts: ms}, name: finalName}
	r.byName[finalName] = m
	r.byHash[compHash] = finalName
	return m, nil
}

// hashComposition hashes a monomer's canonical composition string with
// blake3, to cheaply probe for name/definition collisions before falling
// back to an exact comparison (Design Notes §9: "hashing composition ->
// name").
func hashComposition(ms multiset.PositiveMultiset[domain.Domain]) string {
	sum := blake3.Sum256([]byte(composition(ms)))
	return string(sum[:])
}

func sameComposition(a, b multiset.PositiveMultiset[domain.Domain]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for d, c := range a.Items() {
		if b.Get(d) != c {
			return false
		}
	}
	return true
}

var (
	monomerNamePattern = regexp.MustCompile(`^(` + domain.NameRegex + `)$`)
	quantityPattern    = regexp.MustCompile(`^([1-9]\d*)\(\s*(.+)\s*\)$`)
)

// Parse parses a monomer token per the grammar in spec §6:
//
//	monomer    := domainexpr (' ' domainexpr)* (' >' NAME)?
//	domainexpr := DOMAIN | INT '(' DOMAIN ')'
//
// If the token carries a trailing ">NAME" it is used as the monomer's
// name unless explicitName is also non-empty, which is an error (mirrors
// Monomer.from_string's guard against specifying a name twice).
func (r *Registry) Parse(token string, explicitName string) (Monomer, error) {
	compositionText := token
	name := explicitName

	trimmed := strings.TrimRight(token, " \t")
	if idx := strings.LastIndex(trimmed, ">"); idx > 0 && trimmed[idx-1] == ' ' {
		candidateName := strings.TrimSpace(trimmed[idx+1:])
		if monomerNamePattern.MatchString(candidateName) {
			if explicitName != "" {
				return Monomer{}, fmt.Errorf(
					"%w: received call to Parse specifying a name in the string and in the passed argument",
					staberr.ErrInvalidInput,
				)
			}
			compositionText = trimmed[:idx-1]
			name = candidateName
		}
	}

	fields := strings.Fields(compositionText)
	if len(fields) == 0 {
		return Monomer{}, fmt.Errorf("%w: could not parse monomer from string %q", staberr.ErrInvalidInput, token)
	}

	counts := map[domain.Domain]multiset.Count{}
	for _, field := range fields {
		count := 1
		domainToken := field
		if m := quantityPattern.FindStringSubmatch(field); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Monomer{}, fmt.Errorf("%w: could not parse quantity in %q", staberr.ErrInvalidInput, field)
			}
			count = n
			domainToken = m[2]
		}
		d, err := domain.Parse(domainToken)
		if err != nil {
			return Monomer{}, err
		}
		counts[d] = counts[d].Add(multiset.Count(count))
	}

	return r.New(counts, name)
}
