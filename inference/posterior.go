package inference

import (
	"errors"
	"fmt"

	"github.com/carbocation/heredity/cpt"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoConsistentWorld means no world survived the evidence, so there is
	// nothing to normalize.
	ErrNoConsistentWorld = errors.New("no world is consistent with the evidence")

	// ErrPopulationTooLarge means the population has more than MaxPeople
	// people.
	ErrPopulationTooLarge = fmt.Errorf("population exceeds %d people", MaxPeople)
)

// Posterior is one person's accumulated (and, after Normalize, normalized)
// distributions. Gene is indexed by copy count; Trait by 0 = absent, 1 =
// present.
type Posterior struct {
	Gene  [cpt.MaxCopies + 1]float64
	Trait [2]float64
}

// GeneP is the probability of carrying copies copies.
func (p Posterior) GeneP(copies int) float64 {
	return p.Gene[copies]
}

// TraitP is the probability of the given trait status.
func (p Posterior) TraitP(hasTrait bool) float64 {
	return p.Trait[boolCount(hasTrait)]
}

// Posteriors is indexed like the population it was computed for.
type Posteriors []Posterior

// NewPosteriors returns n empty accumulators.
func NewPosteriors(n int) Posteriors {
	return make(Posteriors, n)
}

// Update adds the joint probability p of world w to every person's
// distributions at the values w assigns them.
func (ps Posteriors) Update(w World, p float64) {
	for i := range ps {
		ps[i].Gene[w.Genes[i]] += p
		ps[i].Trait[boolCount(w.Traits[i])] += p
	}
}

// Normalize rescales each distribution in place so that it sums to 1. A
// distribution with no mass yields ErrNoConsistentWorld and leaves ps
// partially normalized.
func (ps Posteriors) Normalize() error {
	for i := range ps {
		if err := normalize(ps[i].Gene[:]); err != nil {
			return fmt.Errorf("gene distribution of person %d: %w", i, err)
		}
		if err := normalize(ps[i].Trait[:]); err != nil {
			return fmt.Errorf("trait distribution of person %d: %w", i, err)
		}
	}
	return nil
}

func normalize(dist []float64) error {
	total := floats.Sum(dist)
	if total == 0 {
		return ErrNoConsistentWorld
	}
	for i := range dist {
		dist[i] /= total
	}
	return nil
}
