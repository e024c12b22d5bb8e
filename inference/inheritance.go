package inference

import (
	"github.com/BenLubar/memoize"
	"github.com/carbocation/heredity/cpt"
)

var memoizedInheritance = memoize.Memoize(newInheritance)

// Inheritance holds P(child copies | father copies, mother copies), indexed
// as [child][father][mother].
type Inheritance [cpt.MaxCopies + 1][cpt.MaxCopies + 1][cpt.MaxCopies + 1]float64

// InheritanceFor returns the inheritance matrix for a mutation rate. Matrices
// are cached, so repeated runs with the same table share one.
func InheritanceFor(mutation float64) Inheritance {
	return memoizedInheritance.(func(float64) Inheritance)(mutation)
}

func newInheritance(mutation float64) Inheritance {
	var out Inheritance
	for child := range out {
		for father := range out[child] {
			for mother := range out[child][father] {
				out[child][father][mother] = FromParents(child, father, mother, mutation)
			}
		}
	}
	return out
}

// TransmitProbability is the chance that a parent carrying copies copies
// hands a gene-present allele to a child. The parent picks one of its two
// alleles at random and the picked allele flips with probability mutation.
func TransmitProbability(copies int, mutation float64) float64 {
	k := float64(copies)
	return k/2*(1-mutation) + (2-k)/2*mutation
}

// FromParents is the probability of a child carrying exactly copies copies
// given how many each parent carries. Every (father passes, mother passes)
// combination whose total equals copies contributes the product of the two
// per-parent probabilities.
func FromParents(copies, fatherCopies, motherCopies int, mutation float64) float64 {
	fatherPasses := TransmitProbability(fatherCopies, mutation)
	motherPasses := TransmitProbability(motherCopies, mutation)

	p := 0.0
	for _, fromFather := range []bool{true, false} {
		for _, fromMother := range []bool{true, false} {
			if boolCount(fromFather)+boolCount(fromMother) != copies {
				continue
			}

			pf := fatherPasses
			if !fromFather {
				pf = 1 - fatherPasses
			}
			pm := motherPasses
			if !fromMother {
				pm = 1 - motherPasses
			}

			p += pf * pm
		}
	}

	return p
}

// GeneProbability is the probability of a person carrying copies copies.
// Without parents this is the unconditional prior, and the parental counts
// are ignored.
func GeneProbability(table cpt.Table, copies int, hasParents bool, fatherCopies, motherCopies int) float64 {
	if !hasParents {
		return table.GenePrior(copies)
	}

	return FromParents(copies, fatherCopies, motherCopies, table.Mutation)
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
