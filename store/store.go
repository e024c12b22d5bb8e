// Package store persists posterior distributions to a SQLite database so
// that runs can be queried after the fact.
package store

import (
	"strings"

	"github.com/carbocation/heredity"
	"github.com/carbocation/heredity/inference"
	"github.com/carbocation/heredity/pedigree"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS Posterior (
	position INTEGER NOT NULL,
	name TEXT NOT NULL PRIMARY KEY,
	gene0 REAL NOT NULL,
	gene1 REAL NOT NULL,
	gene2 REAL NOT NULL,
	trait_true REAL NOT NULL,
	trait_false REAL NOT NULL
)`

// Row conforms to the rows of the Posterior table and can be easily parsed
// with sqlx.
type Row struct {
	Position   int     `db:"position"`
	Name       string  `db:"name"`
	Gene0      float64 `db:"gene0"`
	Gene1      float64 `db:"gene1"`
	Gene2      float64 `db:"gene2"`
	TraitTrue  float64 `db:"trait_true"`
	TraitFalse float64 `db:"trait_false"`
}

// Posterior converts the row back to a distribution.
func (r Row) Posterior() inference.Posterior {
	return inference.Posterior{
		Gene:  [3]float64{r.Gene0, r.Gene1, r.Gene2},
		Trait: [2]float64{r.TraitFalse, r.TraitTrue},
	}
}

func open(path string) (*sqlx.DB, error) {
	path = heredity.ExpandHome(path)

	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return db, nil
}

// Save replaces the content of the Posterior table at path with one row per
// person.
func Save(path string, pop *pedigree.Population, ps inference.Posteriors) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return pfx.Err(err)
	}
	if _, err := tx.Exec("DELETE FROM Posterior"); err != nil {
		return pfx.Err(err)
	}

	for i, p := range ps {
		row := Row{
			Position:   i,
			Name:       pop.Person(i).Name,
			Gene0:      p.GeneP(0),
			Gene1:      p.GeneP(1),
			Gene2:      p.GeneP(2),
			TraitTrue:  p.TraitP(true),
			TraitFalse: p.TraitP(false),
		}
		if _, err := tx.NamedExec(`INSERT INTO Posterior (position, name, gene0, gene1, gene2, trait_true, trait_false)
			VALUES (:position, :name, :gene0, :gene1, :gene2, :trait_true, :trait_false)`, row); err != nil {
			return pfx.Err(err)
		}
	}

	return pfx.Err(tx.Commit())
}

// Load reads every saved row in load order.
func Load(path string) ([]Row, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows := []Row{}
	if err := db.Select(&rows, "SELECT * FROM Posterior ORDER BY position"); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}
