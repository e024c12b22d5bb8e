package cpt

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/carbocation/heredity"
	"github.com/carbocation/pfx"
)

// JSONTable is the on-disk form of a Table. Any key that is omitted keeps
// its value from Default().
type JSONTable struct {
	Gene     map[int]float64      `json:"gene"`
	Trait    map[int]JSONTraitRow `json:"trait"`
	Mutation *float64             `json:"mutation"`
}

type JSONTraitRow struct {
	True  *float64 `json:"true"`
	False *float64 `json:"false"`
}

func ParseJSONFromPath(path string) (Table, error) {
	f, err := os.Open(heredity.ExpandHome(path))
	if err != nil {
		return Table{}, pfx.Err(err)
	}
	defer f.Close()

	return ParseJSON(f)
}

func ParseJSON(r io.Reader) (Table, error) {
	out := Default()

	var raw JSONTable
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	for copies, p := range raw.Gene {
		if copies < 0 || copies > MaxCopies {
			return out, fmt.Errorf("gene prior given for %d copies, but only 0-%d are modeled", copies, MaxCopies)
		}
		out.Gene[copies] = p
	}

	for copies, row := range raw.Trait {
		if copies < 0 || copies > MaxCopies {
			return out, fmt.Errorf("trait probabilities given for %d copies, but only 0-%d are modeled", copies, MaxCopies)
		}

		// Supplying only one side of the row implies the other.
		switch {
		case row.True != nil && row.False != nil:
			out.Trait[copies] = [2]float64{*row.False, *row.True}
		case row.True != nil:
			out.Trait[copies] = [2]float64{1 - *row.True, *row.True}
		case row.False != nil:
			out.Trait[copies] = [2]float64{*row.False, 1 - *row.False}
		}
	}

	if raw.Mutation != nil {
		out.Mutation = *raw.Mutation
	}

	if err := out.Validate(); err != nil {
		return out, pfx.Err(err)
	}

	return out, nil
}
