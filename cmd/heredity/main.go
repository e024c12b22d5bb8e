// heredity computes, for every person in a pedigree, the posterior
// probability of carrying 0, 1 or 2 copies of a gene and of exhibiting the
// trait it influences, given the traits that were observed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/carbocation/heredity/cpt"
	"github.com/carbocation/heredity/inference"
	"github.com/carbocation/heredity/pedigree"
	"github.com/carbocation/heredity/report"
	"github.com/carbocation/heredity/store"

	_ "github.com/carbocation/heredity/compileinfoprint"
)

const (
	EngineExhaustive = "exhaustive"
	EngineFactorized = "factorized"
)

type config struct {
	Input   string
	CPTPath string
	Engine  string
	Summary bool
	DBPath  string
	Verbose bool
}

// errUsage means the command line did not name exactly one input file.
var errUsage = errors.New("expected exactly one input file")

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(0)
	} else if err != nil {
		os.Exit(2)
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatalln(err)
	}
}

// parseArgs reads flags and the single positional input path. Usage is
// written to output whenever an error is returned.
func parseArgs(args []string, output io.Writer) (config, error) {
	cfg := config{}

	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.CPTPath, "cpt", "", "Optional. JSON file with the gene prior, trait and mutation probabilities. Omitted keys keep their defaults.")
	fs.StringVar(&cfg.Engine, "engine", EngineExhaustive, fmt.Sprintf("Inference engine: %q enumerates every gene and trait assignment; %q enumerates gene assignments only and sums unobserved traits out. Both give the same answer.", EngineExhaustive, EngineFactorized))
	fs.BoolVar(&cfg.Summary, "summary", false, "Also print expected genotype counts, allele frequency and Hardy-Weinberg P values for the population.")
	fs.StringVar(&cfg.DBPath, "db", "", "Optional. SQLite database to which the posteriors will be written.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log the probability tables and timing.")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] data.csv\n", fs.Name())
		fmt.Fprintln(fs.Output(), "data.csv has the columns name, mother, father and trait. It may be compressed or a gs:// path.")
		fs.PrintDefaults()
	}

	// On a bad flag, Parse has already printed usage.
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, errUsage
	}
	cfg.Input = fs.Arg(0)

	return cfg, nil
}

func run(ctx context.Context, cfg config, w io.Writer) error {
	start := time.Now()

	table := cpt.Default()
	if cfg.CPTPath != "" {
		var err error
		table, err = cpt.ParseJSONFromPath(cfg.CPTPath)
		if err != nil {
			return err
		}
	}
	if cfg.Verbose {
		log.Printf("Probability tables: %+v\n", table)
	}

	var infer func(*pedigree.Population, cpt.Table) (inference.Posteriors, error)
	switch cfg.Engine {
	case EngineExhaustive:
		infer = inference.Enumerate
	case EngineFactorized:
		infer = inference.Factorized
	default:
		return fmt.Errorf("engine %q is not recognized; use %q or %q", cfg.Engine, EngineExhaustive, EngineFactorized)
	}

	pop, err := pedigree.Load(ctx, cfg.Input, nil)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("Loaded %d people (%d with an observed trait) from %s\n", pop.Len(), pop.Observed(), cfg.Input)
		if cfg.Engine == EngineExhaustive {
			log.Printf("Evaluating %.0f worlds\n", inference.WorldCount(pop))
		}
	}

	posteriors, err := infer(pop, table)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.Printf("Inference (%s) took %.2f seconds\n", cfg.Engine, time.Since(start).Seconds())
	}

	if err := report.Text(w, pop, posteriors); err != nil {
		return err
	}

	if cfg.Summary {
		if err := report.Summary(w, inference.Summarize(posteriors)); err != nil {
			return err
		}
	}

	if cfg.DBPath != "" {
		if err := store.Save(cfg.DBPath, pop, posteriors); err != nil {
			return err
		}
		if cfg.Verbose {
			log.Printf("Wrote %d posteriors to %s\n", len(posteriors), cfg.DBPath)
		}
	}

	return nil
}
