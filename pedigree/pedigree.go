// Package pedigree holds the population whose genes and traits are inferred:
// who each person is, who their parents are, and whether they were observed
// to have the trait.
package pedigree

import (
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// NoParent is the parent index of a person whose parents were not recorded.
const NoParent = -1

// Person is immutable once the Population holding it has been built. Mother
// and Father index into that Population.
type Person struct {
	Name   string
	Mother int
	Father int

	// Trait is invalid (null) when the trait was not observed.
	Trait null.Bool
}

// HasParents reports whether both parents were recorded. Population
// construction guarantees that it is both or neither.
func (p Person) HasParents() bool {
	return p.Mother != NoParent && p.Father != NoParent
}

// Record is one person as named in an input file, before parent names have
// been resolved.
type Record struct {
	Name   string
	Mother string
	Father string
	Trait  null.Bool

	// Line is the 1-based line in the source file, or 0 if not from a file.
	Line int
}

// Population is read-only after New returns.
type Population struct {
	people []Person
	index  map[string]int
}

// New resolves parent names to indices and validates the records. People keep
// the order of records.
func New(records []Record) (*Population, error) {
	pop := &Population{
		people: make([]Person, 0, len(records)),
		index:  make(map[string]int, len(records)),
	}

	for _, rec := range records {
		if rec.Name == "" {
			return nil, &ValidationError{Line: rec.Line, Reason: "person has no name"}
		}
		if _, exists := pop.index[rec.Name]; exists {
			return nil, &ValidationError{Line: rec.Line, Name: rec.Name, Reason: "name appears more than once"}
		}
		pop.index[rec.Name] = len(pop.people)
		pop.people = append(pop.people, Person{
			Name:   rec.Name,
			Mother: NoParent,
			Father: NoParent,
			Trait:  rec.Trait,
		})
	}

	// Parents may be listed after their children, so resolve on a second pass.
	for i, rec := range records {
		if (rec.Mother == "") != (rec.Father == "") {
			return nil, &ValidationError{Line: rec.Line, Name: rec.Name, Reason: "mother and father must both be given or both be blank"}
		}
		if rec.Mother == "" {
			continue
		}

		for _, parent := range []string{rec.Mother, rec.Father} {
			if parent == rec.Name {
				return nil, &ValidationError{Line: rec.Line, Name: rec.Name, Reason: "person is listed as their own parent"}
			}
			if _, exists := pop.index[parent]; !exists {
				return nil, &ValidationError{Line: rec.Line, Name: rec.Name, Reason: fmt.Sprintf("parent %q is not in the population", parent)}
			}
		}
		if rec.Mother == rec.Father {
			return nil, &ValidationError{Line: rec.Line, Name: rec.Name, Reason: "mother and father are the same person"}
		}

		pop.people[i].Mother = pop.index[rec.Mother]
		pop.people[i].Father = pop.index[rec.Father]
	}

	return pop, nil
}

// Len is the number of people in the population.
func (p *Population) Len() int {
	return len(p.people)
}

// Person returns the i'th person in load order.
func (p *Population) Person(i int) Person {
	return p.people[i]
}

// People returns a copy of everyone in load order.
func (p *Population) People() []Person {
	out := make([]Person, len(p.people))
	copy(out, p.people)
	return out
}

// Index returns the position of the named person, or NoParent and false.
func (p *Population) Index(name string) (int, bool) {
	i, exists := p.index[name]
	if !exists {
		return NoParent, false
	}
	return i, true
}

// Observed counts people whose trait is known.
func (p *Population) Observed() int {
	n := 0
	for _, person := range p.people {
		if person.Trait.Valid {
			n++
		}
	}
	return n
}

// ValidationError describes a malformed person record.
type ValidationError struct {
	Line   int
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	b := strings.Builder{}
	b.WriteString("invalid pedigree")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " (%s)", e.Name)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}
