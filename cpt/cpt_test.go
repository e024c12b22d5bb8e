package cpt

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultValues(t *testing.T) {
	d := Default()
	for _, v := range []struct {
		Copies   int
		Prior    float64
		HasTrait float64
	}{
		{0, 0.96, 0.01},
		{1, 0.03, 0.56},
		{2, 0.01, 0.65},
	} {
		if got := d.GenePrior(v.Copies); got != v.Prior {
			t.Fatalf("Prior for %d copies: got %v, expected %v", v.Copies, got, v.Prior)
		}
		if got := d.TraitGiven(v.Copies, true); got != v.HasTrait {
			t.Fatalf("Trait given %d copies: got %v, expected %v", v.Copies, got, v.HasTrait)
		}
		if got := d.TraitGiven(v.Copies, false); math.Abs(got-(1-v.HasTrait)) > Tolerance {
			t.Fatalf("No trait given %d copies: got %v, expected %v", v.Copies, got, 1-v.HasTrait)
		}
	}
	if d.Mutation != 0.01 {
		t.Fatalf("Mutation: got %v", d.Mutation)
	}
}

func TestValidateRejects(t *testing.T) {
	for name, mutate := range map[string]func(*Table){
		"negative mutation": func(t *Table) { t.Mutation = -0.1 },
		"prior sum":         func(t *Table) { t.Gene[0] = 0.5 },
		"prior range":       func(t *Table) { t.Gene = [3]float64{1.5, -0.25, -0.25} },
		"trait row sum":     func(t *Table) { t.Trait[1] = [2]float64{0.5, 0.6} },
		"nan":               func(t *Table) { t.Mutation = math.NaN() },
	} {
		tbl := Default()
		mutate(&tbl)
		if err := tbl.Validate(); err == nil {
			t.Fatalf("%s: expected a validation error", name)
		}
	}
}

func TestParseJSONPartial(t *testing.T) {
	tbl, err := ParseJSON(strings.NewReader(`{"mutation": 0.05, "trait": {"0": {"true": 0.2}}}`))
	if err != nil {
		t.Fatal(err)
	}

	if tbl.Mutation != 0.05 {
		t.Fatalf("Mutation: got %v, expected 0.05", tbl.Mutation)
	}
	if tbl.TraitGiven(0, true) != 0.2 || math.Abs(tbl.TraitGiven(0, false)-0.8) > Tolerance {
		t.Fatalf("Trait row 0: got %v", tbl.Trait[0])
	}
	if tbl.Gene != Default().Gene {
		t.Fatalf("Gene prior should be untouched, got %v", tbl.Gene)
	}
}

func TestParseJSONFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpt.json")
	body := `{"gene": {"0": 0.5, "1": 0.25, "2": 0.25}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ParseJSONFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Gene != [3]float64{0.5, 0.25, 0.25} {
		t.Fatalf("Gene prior: got %v", tbl.Gene)
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, body := range []string{
		`{"gene": {"3": 0.1}}`,
		`{"gene": {"0": 0.9}}`,
		`{"mutation": 2}`,
		`{"mutation": `,
	} {
		if _, err := ParseJSON(strings.NewReader(body)); err == nil {
			t.Fatalf("Expected an error for %s", body)
		}
	}
}
