// Package hwe tests genotype counts for Hardy-Weinberg equilibrium. Counts are
// by number of gene copies: 0 (homozygous absent), 1 (heterozygous) and 2
// (homozygous present).
package hwe

import (
	"math"
	"math/big"

	"github.com/BenLubar/memoize"
	"github.com/tokenme/probab/dst"
)

var memoizedExactFor = memoize.Memoize(exactFor)
var memoizedFactorial = memoize.Memoize(factorial)

// Counts holds the number of people carrying 0, 1 and 2 copies.
type Counts [3]int64

// FromExpected rounds expected (possibly fractional) genotype counts to whole
// people.
func FromExpected(expected [3]float64) Counts {
	var out Counts
	for i, v := range expected {
		out[i] = int64(math.Round(v))
	}
	return out
}

// N is the number of people counted.
func (c Counts) N() int64 {
	return c[0] + c[1] + c[2]
}

// ChiSquare returns a chi square value (1 degree of freedom) comparing the
// observed genotypes against those expected from the observed allele
// frequency.
func (c Counts) ChiSquare() float64 {
	absent, het, present := float64(c[0]), float64(c[1]), float64(c[2])

	A := absent*2 + het
	a := present*2 + het

	// A population without both alleles is trivially in equilibrium; return 0
	// rather than NaN.
	if A == 0 || a == 0 {
		return 0.0
	}

	N := absent + het + present
	fA := A / (A + a)
	fa := a / (A + a)

	eAA := fA * fA * N
	eAa := 2.0 * fA * fa * N
	eaa := fa * fa * N

	return math.Pow(eAA-absent, 2)/eAA +
		math.Pow(eAa-het, 2)/eAa +
		math.Pow(eaa-present, 2)/eaa
}

// Approximate is the chi square P value.
func (c Counts) Approximate() (p float64) {
	x := c.ChiSquare()
	if x == 0 {
		return 1.0
	}

	p = 1.0
	defer func() { recover() }()

	p = 1.0 - dst.ChiSquareCDF(1)(x)

	return
}

// Exact computes an exact Hardy-Weinberg equilibrium P value, based on the
// Abecasis paper, itself based on RA Fisher's method: the sum of the
// probabilities of every heterozygote count at least as extreme as the one
// observed. Exact is safe to call from concurrent goroutines.
func (c Counts) Exact() float64 {
	AA, Aa, aa := c[0], c[1], c[2]

	// Enforce AA common, aa rare
	if aa > AA {
		AA, aa = aa, AA
	}

	exact := memoizedExactFor.(func(int64, int64, int64) float64)
	baseP := exact(AA, Aa, aa)
	sumP := baseP

	// Left tail: more heterozygotes
	for hom, het, rare := AA-1, Aa+2, aa-1; rare >= 0; hom, het, rare = hom-1, het+2, rare-1 {
		newest := exact(hom, het, rare)
		if newest > baseP {
			continue
		}
		if newest <= math.SmallestNonzeroFloat64 {
			break
		}
		sumP += newest
	}

	// Right tail: fewer heterozygotes
	for hom, het, rare := AA+1, Aa-2, aa+1; het >= 0; hom, het, rare = hom+1, het-2, rare+1 {
		newest := exact(hom, het, rare)
		if newest > baseP {
			continue
		}
		if newest <= math.SmallestNonzeroFloat64 {
			break
		}
		sumP += newest
	}

	return math.Min(sumP, 1.0)
}

// exactFor yields the probability of observing exactly Aa heterozygotes in a
// sample of AA+Aa+aa individuals with Aa+2*aa minor alleles.
func exactFor(AA, Aa, aa int64) float64 {
	A := AA*2 + Aa
	a := aa*2 + Aa
	N := AA + Aa + aa

	fact := memoizedFactorial.(func(int64, int64) *big.Int)

	var num, denom big.Int

	num.Exp(big.NewInt(2), big.NewInt(Aa), nil)
	num.Mul(&num, fact(1, A))
	num.Mul(&num, fact(1, a))

	denom.Set(fact(N+1, 2*N))
	denom.Mul(&denom, fact(1, AA))
	denom.Mul(&denom, fact(1, Aa))
	denom.Mul(&denom, fact(1, aa))

	final, _ := new(big.Rat).SetFrac(&num, &denom).Float64()

	return final
}

func factorial(a, b int64) *big.Int {
	return big.NewInt(1).MulRange(a, b)
}
