// Package cpt holds the conditional probability tables of the heredity
// network: the unconditional gene-copy prior, the probability of the trait
// given the number of gene copies, and the per-allele mutation rate.
package cpt

import (
	"fmt"
	"math"
)

// MaxCopies is the largest number of gene copies a person can carry.
const MaxCopies = 2

// Tolerance used when checking that distributions sum to 1.
const Tolerance = 1e-9

// Table is passed by value, so a Table handed to the inference engine cannot
// be changed underneath it.
type Table struct {
	// Gene is the unconditional probability of carrying 0, 1 or 2 copies.
	Gene [MaxCopies + 1]float64

	// Trait is indexed by copy count, then by trait status (0 = absent, 1 =
	// present).
	Trait [MaxCopies + 1][2]float64

	// Mutation is the probability that a transmitted allele flips between
	// present and absent.
	Mutation float64
}

// Default returns the canonical tables.
func Default() Table {
	return Table{
		Gene: [MaxCopies + 1]float64{
			0: 0.96,
			1: 0.03,
			2: 0.01,
		},
		Trait: [MaxCopies + 1][2]float64{
			0: {0.99, 0.01},
			1: {0.44, 0.56},
			2: {0.35, 0.65},
		},
		Mutation: 0.01,
	}
}

// GenePrior is the probability of a person with no recorded parents carrying
// exactly copies copies of the gene.
func (t Table) GenePrior(copies int) float64 {
	return t.Gene[copies]
}

// TraitGiven is P(trait == hasTrait | copies).
func (t Table) TraitGiven(copies int, hasTrait bool) float64 {
	return t.Trait[copies][boolIndex(hasTrait)]
}

// Validate makes sure every entry is a probability and that each
// distribution sums to 1.
func (t Table) Validate() error {
	if !isProbability(t.Mutation) {
		return fmt.Errorf("mutation rate %v is not within [0, 1]", t.Mutation)
	}

	sum := 0.0
	for copies, p := range t.Gene {
		if !isProbability(p) {
			return fmt.Errorf("gene prior for %d copies (%v) is not within [0, 1]", copies, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("gene prior sums to %v, expected 1", sum)
	}

	for copies, row := range t.Trait {
		for _, p := range row {
			if !isProbability(p) {
				return fmt.Errorf("trait probability given %d copies (%v) is not within [0, 1]", copies, p)
			}
		}
		if s := row[0] + row[1]; math.Abs(s-1) > Tolerance {
			return fmt.Errorf("trait probabilities given %d copies sum to %v, expected 1", copies, s)
		}
	}

	return nil
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1 && !math.IsNaN(p)
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
