package inference

import (
	"github.com/carbocation/heredity/cpt"
	"github.com/carbocation/heredity/pedigree"
)

// evidence is the observed traits as bitmasks: observed marks people whose
// trait is known, and present marks those among them who have it.
type evidence struct {
	observed uint32
	present  uint32
}

func newEvidence(pop *pedigree.Population) evidence {
	var ev evidence
	for i := 0; i < pop.Len(); i++ {
		trait := pop.Person(i).Trait
		if !trait.Valid {
			continue
		}
		ev.observed |= 1 << uint(i)
		if trait.Bool {
			ev.present |= 1 << uint(i)
		}
	}
	return ev
}

// failsEvidence reports whether the trait subset haveTrait disagrees with any
// observed trait.
func (ev evidence) failsEvidence(haveTrait uint32) bool {
	return (haveTrait^ev.present)&ev.observed != 0
}

// Enumerate computes every person's posterior gene and trait distributions by
// exhaustive enumeration. Every subset of the population is tried as the set
// of people with the trait, and subsets contradicting an observed trait are
// skipped. For each surviving subset, every subset is tried as the one-copy
// set, and every subset of the remaining people as the two-copy set. Each
// resulting world's joint probability is accumulated, and the totals are
// normalized at the end.
func Enumerate(pop *pedigree.Population, table cpt.Table) (Posteriors, error) {
	if err := checkSize(pop); err != nil {
		return nil, err
	}

	n := pop.Len()
	everyone := uint32(1)<<uint(n) - 1

	eval := newEvaluator(pop, table)
	ev := newEvidence(pop)
	out := NewPosteriors(n)
	w := NewWorld(n, 0, 0, 0)

	for haveTrait := uint32(0); haveTrait <= everyone; haveTrait++ {
		if !ev.failsEvidence(haveTrait) {
			for oneGene := uint32(0); oneGene <= everyone; oneGene++ {
				rest := everyone &^ oneGene

				// Walk every subset of rest, from rest itself down to the
				// empty set.
				for twoGenes := rest; ; twoGenes = (twoGenes - 1) & rest {
					w.set(oneGene, twoGenes, haveTrait)
					out.Update(w, eval.joint(w))

					if twoGenes == 0 {
						break
					}
				}
			}
		}
	}

	if err := out.Normalize(); err != nil {
		return nil, err
	}

	return out, nil
}

// Factorized gives the same posteriors as Enumerate but only enumerates the
// 3^n gene partitions. Trait nodes have no children, so the trait of an
// unobserved person can be summed out per gene partition: its marginal is the
// partition weight times P(trait | copies), and every other unobserved trait
// contributes a factor of 1.
func Factorized(pop *pedigree.Population, table cpt.Table) (Posteriors, error) {
	if err := checkSize(pop); err != nil {
		return nil, err
	}

	n := pop.Len()
	everyone := uint32(1)<<uint(n) - 1

	eval := newEvaluator(pop, table)
	people := pop.People()
	out := NewPosteriors(n)
	w := NewWorld(n, 0, 0, 0)

	for oneGene := uint32(0); oneGene <= everyone; oneGene++ {
		rest := everyone &^ oneGene
		for twoGenes := rest; ; twoGenes = (twoGenes - 1) & rest {
			w.set(oneGene, twoGenes, 0)
			weight := eval.geneWeight(w.Genes)

			for i, person := range people {
				copies := w.Genes[i]
				out[i].Gene[copies] += weight

				if person.Trait.Valid {
					out[i].Trait[boolCount(person.Trait.Bool)] += weight
					continue
				}
				out[i].Trait[1] += weight * table.TraitGiven(copies, true)
				out[i].Trait[0] += weight * table.TraitGiven(copies, false)
			}

			if twoGenes == 0 {
				break
			}
		}
	}

	if err := out.Normalize(); err != nil {
		return nil, err
	}

	return out, nil
}
