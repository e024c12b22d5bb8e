// Package report prints posterior distributions.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/carbocation/heredity/hwe"
	"github.com/carbocation/heredity/inference"
	"github.com/carbocation/heredity/pedigree"
)

// Text writes, for each person in load order, their gene distribution from
// two copies down to zero and then their trait distribution, present before
// absent, with probabilities to four decimal places.
func Text(w io.Writer, pop *pedigree.Population, ps inference.Posteriors) error {
	bw := bufio.NewWriter(w)

	for i, p := range ps {
		fmt.Fprintf(bw, "%s:\n", pop.Person(i).Name)

		fmt.Fprintf(bw, "  Gene:\n")
		for _, copies := range []int{2, 1, 0} {
			fmt.Fprintf(bw, "    %d: %.4f\n", copies, p.GeneP(copies))
		}

		fmt.Fprintf(bw, "  Trait:\n")
		for _, hasTrait := range []bool{true, false} {
			fmt.Fprintf(bw, "    %s: %.4f\n", traitLabel(hasTrait), p.TraitP(hasTrait))
		}
	}

	return bw.Flush()
}

func traitLabel(hasTrait bool) string {
	if hasTrait {
		return "True"
	}
	return "False"
}

// Summary writes population-wide expectations, with Hardy-Weinberg P values
// for the expected genotype counts from both the exact test and the chi
// square approximation.
func Summary(w io.Writer, s inference.Summary) error {
	counts := hwe.FromExpected(s.ExpectedGenotypes)

	_, err := fmt.Fprintf(w, "Population (%d people):\n"+
		"  Expected copies:\n"+
		"    2: %.4f\n"+
		"    1: %.4f\n"+
		"    0: %.4f\n"+
		"  Expected with trait: %.4f\n"+
		"  Allele frequency: %.4f\n"+
		"  HWE counts (0/1/2 copies, N=%d): %d/%d/%d\n"+
		"  HWE exact P: %.4g\n"+
		"  HWE chi square P: %.4g\n",
		s.People,
		s.ExpectedGenotypes[2], s.ExpectedGenotypes[1], s.ExpectedGenotypes[0],
		s.ExpectedWithTrait,
		s.AlleleFrequency,
		counts.N(), counts[0], counts[1], counts[2],
		s.HWE(),
		s.HWEApproximate(),
	)

	return err
}
