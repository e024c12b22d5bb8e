package inference

import (
	"fmt"
	"math"

	"github.com/carbocation/heredity/pedigree"
)

// MaxPeople bounds the population size. Worlds are enumerated as bitmasks,
// and the run time is exponential well before this limit is reached.
const MaxPeople = 20

// World is one complete hypothesis: every person's gene copy count and trait
// status, indexed like the population.
type World struct {
	Genes  []int
	Traits []bool
}

// NewWorld builds a world from bitmasks of the people with one copy, two
// copies and the trait. oneGene and twoGenes must be disjoint.
func NewWorld(n int, oneGene, twoGenes, haveTrait uint32) World {
	w := World{
		Genes:  make([]int, n),
		Traits: make([]bool, n),
	}
	w.set(oneGene, twoGenes, haveTrait)
	return w
}

func (w World) set(oneGene, twoGenes, haveTrait uint32) {
	for i := range w.Genes {
		bit := uint32(1) << uint(i)
		switch {
		case twoGenes&bit != 0:
			w.Genes[i] = 2
		case oneGene&bit != 0:
			w.Genes[i] = 1
		default:
			w.Genes[i] = 0
		}
		w.Traits[i] = haveTrait&bit != 0
	}
}

// OneGene lists the people carrying exactly one copy.
func (w World) OneGene() []int {
	return w.withCopies(1)
}

// TwoGenes lists the people carrying two copies.
func (w World) TwoGenes() []int {
	return w.withCopies(2)
}

// HaveTrait lists the people with the trait.
func (w World) HaveTrait() []int {
	out := make([]int, 0)
	for i, has := range w.Traits {
		if has {
			out = append(out, i)
		}
	}
	return out
}

func (w World) withCopies(copies int) []int {
	out := make([]int, 0)
	for i, g := range w.Genes {
		if g == copies {
			out = append(out, i)
		}
	}
	return out
}

// WorldCount is the number of worlds the exhaustive engine evaluates for pop:
// 3^n gene partitions for every trait subset that agrees with the evidence.
func WorldCount(pop *pedigree.Population) float64 {
	n := pop.Len()
	unobserved := n - pop.Observed()
	return math.Pow(3, float64(n)) * math.Pow(2, float64(unobserved))
}

func checkSize(pop *pedigree.Population) error {
	if pop.Len() > MaxPeople {
		return fmt.Errorf("%d people: %w", pop.Len(), ErrPopulationTooLarge)
	}
	return nil
}
