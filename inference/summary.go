package inference

import (
	"github.com/carbocation/heredity/cpt"
	"github.com/carbocation/heredity/hwe"
	"gonum.org/v1/gonum/floats"
)

// Summary aggregates normalized posteriors over the whole population.
type Summary struct {
	People int

	// ExpectedGenotypes is the expected number of people carrying 0, 1 and 2
	// copies.
	ExpectedGenotypes [cpt.MaxCopies + 1]float64

	// ExpectedWithTrait is the expected number of people with the trait.
	ExpectedWithTrait float64

	// AlleleFrequency is the expected share of all alleles in the population
	// that carry the gene.
	AlleleFrequency float64
}

func Summarize(ps Posteriors) Summary {
	out := Summary{People: len(ps)}

	for _, p := range ps {
		floats.Add(out.ExpectedGenotypes[:], p.Gene[:])
		out.ExpectedWithTrait += p.TraitP(true)
	}

	if out.People > 0 {
		alleles := out.ExpectedGenotypes[1] + 2*out.ExpectedGenotypes[2]
		out.AlleleFrequency = alleles / float64(2*out.People)
	}

	return out
}

// HWE is the exact Hardy-Weinberg P value of the expected genotype counts,
// rounded to whole people.
func (s Summary) HWE() float64 {
	return hwe.FromExpected(s.ExpectedGenotypes).Exact()
}

// HWEApproximate is the chi square (1 degree of freedom) P value of the same
// rounded counts.
func (s Summary) HWEApproximate() float64 {
	return hwe.FromExpected(s.ExpectedGenotypes).Approximate()
}
