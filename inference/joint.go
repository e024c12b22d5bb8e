package inference

import (
	"github.com/carbocation/heredity/cpt"
	"github.com/carbocation/heredity/pedigree"
)

// JointProbability is the unnormalized probability of exactly the world w.
// Each person contributes the probability of their copy count given their
// parents' counts in w (or the prior, without parents), times the probability
// of their trait status given their own count.
func JointProbability(pop *pedigree.Population, table cpt.Table, w World) float64 {
	return newEvaluator(pop, table).joint(w)
}

// evaluator caches what the joint probability needs so that the enumeration
// loops don't repeat the lookups for every world.
type evaluator struct {
	people  []pedigree.Person
	table   cpt.Table
	inherit Inheritance
}

func newEvaluator(pop *pedigree.Population, table cpt.Table) *evaluator {
	return &evaluator{
		people:  pop.People(),
		table:   table,
		inherit: InheritanceFor(table.Mutation),
	}
}

// geneProbability is GeneProbability with the parental term read from the
// precomputed matrix.
func (e *evaluator) geneProbability(i int, genes []int) float64 {
	person := e.people[i]
	if !person.HasParents() {
		return e.table.GenePrior(genes[i])
	}

	return e.inherit[genes[i]][genes[person.Father]][genes[person.Mother]]
}

func (e *evaluator) joint(w World) float64 {
	p := 1.0
	for i := range e.people {
		p *= e.geneProbability(i, w.Genes) * e.table.TraitGiven(w.Genes[i], w.Traits[i])
	}
	return p
}

// geneWeight is the probability of the gene partition alone, with the trait
// of each observed person folded in and unobserved traits summed out.
func (e *evaluator) geneWeight(genes []int) float64 {
	p := 1.0
	for i, person := range e.people {
		p *= e.geneProbability(i, genes)
		if person.Trait.Valid {
			p *= e.table.TraitGiven(genes[i], person.Trait.Bool)
		}
	}
	return p
}
