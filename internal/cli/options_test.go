// internal/cli/options_test.go
package cli

import (
	"flag"
	"io"
	"testing"
)

func parse(t *testing.T, argv ...string) Options {
	t.Helper()
	fs := flag.NewFlagSet("sqcons", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var o Options
	Register(fs, &o)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	return o
}

func TestDefaults(t *testing.T) {
	o := parse(t)
	if o.Reads != 10 || o.Segments != 4 || o.SegLength != 40 {
		t.Errorf("job defaults: %+v", o)
	}
	if o.Scorer != "forward" || o.Threads != 1 {
		t.Errorf("engine defaults: %+v", o)
	}
	if o.Train || o.Verbose || o.Version {
		t.Errorf("bool defaults: %+v", o)
	}
}

func TestOverrides(t *testing.T) {
	o := parse(t,
		"--reads", "3",
		"--segments", "2",
		"--seg-length", "25",
		"--scorer", "merge",
		"--threads", "8",
		"--seed", "42",
		"--train",
		"--verbose",
	)
	if o.Reads != 3 || o.Segments != 2 || o.SegLength != 25 {
		t.Errorf("job overrides: %+v", o)
	}
	if o.Scorer != "merge" || o.Threads != 8 || o.Seed != 42 {
		t.Errorf("engine overrides: %+v", o)
	}
	if !o.Train || !o.Verbose {
		t.Errorf("bool overrides: %+v", o)
	}
}

func TestUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("sqcons", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var o Options
	Register(fs, &o)
	if err := fs.Parse([]string{"--bogus"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
