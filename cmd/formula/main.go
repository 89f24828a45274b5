package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/envy-ai/formula"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("formula: ")
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	srcs, err := inputs(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(os.Stdout, cfg, srcs); err != nil {
		log.Fatal(err)
	}
}

// inputs gathers the formulas or labels to process: the input file, then each
// argument.
func inputs(cfg Config) ([]string, error) {
	var srcs []string
	text, err := infile(cfg.In, len(cfg.Source) == 0)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.TrimSpace(text) == "":
	case cfg.Lines:
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				srcs = append(srcs, line)
			}
		}
	default:
		srcs = append(srcs, text)
	}
	return append(srcs, cfg.Source...), nil
}

func run(w io.Writer, cfg Config, srcs []string) error {
	if cfg.Keys {
		for _, label := range srcs {
			k, err := formula.NormalizeVariableKey(label)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, k)
		}
		return nil
	}

	vars, err := bindings(cfg)
	if err != nil {
		return err
	}

	var p []*formula.Formula
	for _, src := range srcs {
		f, err := formula.Compile(src)
		if err != nil {
			return err
		}
		p = append(p, f)
	}

	verb := cfg.Format + "\n"
	for _, f := range p {
		if cfg.Echo {
			fmt.Fprintf(w, "%v : ", f)
		}
		if cfg.Vars {
			fmt.Fprintln(w, strings.Join(f.Vars(), " "))
			continue
		}
		r, err := eval(f, vars, cfg.Prec)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		fmt.Fprintf(w, verb, r)
	}
	return nil
}

func eval(f *formula.Formula, vars formula.Bindings, prec uint) (any, error) {
	if prec == 0 {
		return f.Eval(vars)
	}
	return f.EvalBig(vars, prec)
}

// bindings loads the bindings file, then evaluates each -given definition in
// order. Definitions may refer to earlier ones.
func bindings(cfg Config) (formula.Bindings, error) {
	vars := formula.Bindings{}
	if cfg.Bindings != "" {
		b, err := os.ReadFile(cfg.Bindings)
		if err != nil {
			return nil, err
		}
		d := json.NewDecoder(bytes.NewReader(b))
		d.UseNumber()
		if err := d.Decode(&vars); err != nil {
			return nil, fmt.Errorf("reading %s: %w", cfg.Bindings, err)
		}
	}
	for _, d := range cfg.Given {
		nm, vl := d[0], d[1]
		f, err := formula.Compile(vl)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", nm, err)
		}
		r, err := f.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", nm, err)
		}
		vars[nm] = r
	}
	return vars, nil
}

func infile(inname string, std bool) (string, error) {
	var f io.Reader
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return "", err
		}
		defer in.Close()
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return "", nil
	}
	b, err := io.ReadAll(f)
	return string(b), err
}
