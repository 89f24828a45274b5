package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds command configuration. Environment variables give defaults
// which flags override.
type Config struct {
	In       string `env:"FORMULA_IN"`
	Format   string `env:"FORMULA_FMT" envDefault:"%g"`
	Prec     uint   `env:"FORMULA_PREC"`
	Bindings string `env:"FORMULA_BINDINGS"`

	Given  [][2]string
	Lines  bool
	Echo   bool
	Vars   bool
	Keys   bool
	Source []string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	addgiven := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		cfg.Given = append(cfg.Given, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	fs.StringVar(&cfg.In, "in", cfg.In, "input file (default stdin if no args given)")
	fs.StringVar(&cfg.Format, "fmt", cfg.Format, "result formatting string")
	fs.UintVar(&cfg.Prec, "p", cfg.Prec, "precision of calculations in bits (0 for float64)")
	fs.StringVar(&cfg.Bindings, "bindings", cfg.Bindings, "JSON file of variable bindings")
	fs.Func("given", "name=value variable definition (any number of times)", addgiven)
	fs.BoolVar(&cfg.Lines, "n", false, "parse separate input lines as separate formulas")
	fs.BoolVar(&cfg.Echo, "echo", false, "print parse trees")
	fs.BoolVar(&cfg.Vars, "vars", false, "list the variables of each formula instead of evaluating")
	fs.BoolVar(&cfg.Keys, "keys", false, "print the variable key for each input label")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	cfg.Source = fs.Args()
	return cfg, nil
}
