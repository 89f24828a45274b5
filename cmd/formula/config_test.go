package main

import (
	"flag"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("formula", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Format != "%g" {
		t.Fatalf("expected default format %%g, got %q", cfg.Format)
	}
	if cfg.Prec != 0 {
		t.Fatalf("expected float64 precision by default, got %d", cfg.Prec)
	}
	if cfg.In != "" || cfg.Bindings != "" {
		t.Fatalf("expected no files, got in %q bindings %q", cfg.In, cfg.Bindings)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("FORMULA_PREC", "256")
	t.Setenv("FORMULA_FMT", "%.2f")
	fs := flag.NewFlagSet("formula", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Prec != 256 || cfg.Format != "%.2f" {
		t.Fatalf("expected env values, got prec %d format %q", cfg.Prec, cfg.Format)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("FORMULA_PREC", "256")
	fs := flag.NewFlagSet("formula", flag.ContinueOnError)
	args := []string{"-p", "80", "-given", "level = 3", "-given", "bonus=level*2", "-n", "-vars", "level+1"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Prec != 80 {
		t.Fatalf("expected flag to override env, got prec %d", cfg.Prec)
	}
	if len(cfg.Given) != 2 || cfg.Given[0] != [2]string{"level", "3"} || cfg.Given[1] != [2]string{"bonus", "level*2"} {
		t.Fatalf("wrong definitions %q", cfg.Given)
	}
	if !cfg.Lines || !cfg.Vars || cfg.Echo || cfg.Keys {
		t.Fatalf("wrong switches %+v", cfg)
	}
	if len(cfg.Source) != 1 || cfg.Source[0] != "level+1" {
		t.Fatalf("wrong formulas %q", cfg.Source)
	}
}

func TestParseConfigErrors(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("FORMULA_PREC", "lots")
		fs := flag.NewFlagSet("formula", flag.ContinueOnError)
		_, err := ParseConfig(fs, nil)
		if err == nil || !strings.Contains(err.Error(), "parse env:") {
			t.Fatalf("expected parse env error, got %v", err)
		}
	})
	t.Run("given", func(t *testing.T) {
		fs := flag.NewFlagSet("formula", flag.ContinueOnError)
		fs.SetOutput(new(strings.Builder))
		_, err := ParseConfig(fs, []string{"-given", "level"})
		if err == nil || !strings.Contains(err.Error(), "name=value") {
			t.Fatalf("expected definition error, got %v", err)
		}
	})
}
