package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/lognorm/lognorm/pkg/fields"
	"github.com/lognorm/lognorm/pkg/iterator"
	"github.com/lognorm/lognorm/pkg/pdag"
	"github.com/lognorm/lognorm/pkg/record"
	"github.com/lognorm/lognorm/pkg/sink"
	"github.com/lognorm/lognorm/pkg/source"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := hclog.Default()
	if len(os.Args) <= 1 {
		usage()
		return
	}
	args := os.Args[1:]
	switch args[0] {
	case "normalize":
		start := time.Now()
		if err := doNormalize(log, args[1:]...); err != nil {
			exitError("Failed to normalize: %v", err)
		}
		log.Debug("Normalization finished", "duration", time.Now().Sub(start).String())
	case "vet":
		if err := doVet(log, args[1:]...); err != nil {
			exitError("Rulebase check failed: %v", err)
		}
		fmt.Println("Rulebase compiled successfully")
	case "types":
		doPrintTypes()
	case "help":
		usage()
	default:
		exitError("Unrecognized command: '%s'", args[0])
	}
}

func exitError(format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Printf("Error: "+format, args...)
	usage()
	os.Exit(-1)
}

func usage() {
	text := `
lognorm normalizes free-form log lines into structured JSON records by matching
them against a compiled rulebase of samples.

  lognorm help
  lognorm types
  lognorm vet -r RULEBASE
  lognorm normalize -r RULEBASE [-f FILE | -t FILE] [-o FILE] [-s DB] [-w N]

The 'help' command will print this usage information.
The 'types' command will print documentation for all registered field types.
The 'vet' command will compile RULEBASE and report any bad rules without reading input.
The 'normalize' command will compile RULEBASE and normalize input lines:
  -r RULEBASE  rulebase file of 'rule=tags:sample' lines (required)
  -f FILE      read lines from FILE instead of stdin
  -t FILE      tail FILE, following growth and rotation, until interrupted
  -o FILE      append JSON records to FILE instead of stdout
  -s DB        additionally store records in the SQLite database DB
  -w N         number of matcher workers (default 4)
Lines that match no sample are emitted as {"@unparsed": "<line>"}.
`
	fmt.Print(text)
}

type normalizeOpts struct {
	rulebase string
	file     string
	tailFile string
	outFile  string
	storeDB  string
	workers  int
}

func parseNormalizeArgs(args []string) (normalizeOpts, error) {
	opts := normalizeOpts{workers: 4}
	i := 0
	next := func(flag string) (string, error) {
		i++
		if i >= len(args) {
			return "", fmt.Errorf("flag %s requires a value", flag)
		}
		return args[i], nil
	}
	for ; i < len(args); i++ {
		var err error
		switch args[i] {
		case "-r":
			opts.rulebase, err = next("-r")
		case "-f":
			opts.file, err = next("-f")
		case "-t":
			opts.tailFile, err = next("-t")
		case "-o":
			opts.outFile, err = next("-o")
		case "-s":
			opts.storeDB, err = next("-s")
		case "-w":
			var val string
			val, err = next("-w")
			if err == nil {
				opts.workers, err = strconv.Atoi(val)
				if err == nil && opts.workers < 1 {
					err = fmt.Errorf("need at least one worker")
				}
			}
		default:
			err = fmt.Errorf("unrecognized flag: '%s'", args[i])
		}
		if err != nil {
			return opts, err
		}
	}
	if opts.rulebase == "" {
		return opts, errors.New("a rulebase must be specified with -r")
	}
	if opts.file != "" && opts.tailFile != "" {
		return opts, errors.New("-f and -t are mutually exclusive")
	}
	return opts, nil
}

func compileRulebase(log hclog.Logger, filename string) (*pdag.Graph, error) {
	g := pdag.New(log, fields.DefaultRegistry())
	if err := g.LoadRulebaseFile(filename); err != nil {
		return nil, err
	}
	return g, nil
}

func doNormalize(log hclog.Logger, args ...string) error {
	opts, err := parseNormalizeArgs(args)
	if err != nil {
		return err
	}
	g, err := compileRulebase(log, opts.rulebase)
	if err != nil {
		return err
	}
	defer func() {
		_ = g.Close()
	}()
	log.Debug("Rulebase compiled", "rules", g.RuleCount(), "nodes", g.NodeCount(), "edges", g.EdgeCount())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var lines <-chan source.Line
	switch {
	case opts.tailFile != "":
		lines, err = source.Tail(ctx, opts.tailFile)
	case opts.file != "":
		lines, err = source.File(ctx, opts.file)
	default:
		lines = source.Reader(ctx, os.Stdin)
	}
	if err != nil {
		return err
	}

	// Matcher workers share the compiled graph; it's read-only after compile.
	records := make(chan record.Record)
	var workers errgroup.Group
	for w := 0; w < opts.workers; w++ {
		workers.Go(func() error {
			for line := range lines {
				rec, err := g.Match(line.Text)
				switch {
				case err == nil:
				case errors.Is(err, pdag.ErrNoMatch):
					rec = record.Unparsed(line.Text)
				default:
					return err
				}
				select {
				case <-ctx.Done():
					return nil
				case records <- rec:
				}
			}
			return nil
		})
	}
	var matchErr error
	go func() {
		matchErr = workers.Wait()
		close(records)
	}()

	out := os.Stdout
	if opts.outFile != "" {
		f, err := os.OpenFile(opts.outFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	iter := iterator.FromChannel(records)
	if opts.storeDB != "" {
		store, err := sink.OpenStore(opts.storeDB)
		if err != nil {
			iterator.Drain(iter)
			return err
		}
		defer func() {
			_ = store.Close()
		}()
		a, b := iterator.Dupe(iter)
		var sinks errgroup.Group
		sinks.Go(func() error {
			return sink.JSONLines(a, out)
		})
		sinks.Go(func() error {
			return store.Sink(ctx, b)
		})
		if err := sinks.Wait(); err != nil {
			return err
		}
	} else {
		if err := sink.JSONLines(iter, out); err != nil {
			return err
		}
	}
	return matchErr
}

func doVet(log hclog.Logger, args ...string) error {
	if len(args) != 2 || args[0] != "-r" {
		return errors.New("vet requires a rulebase: vet -r RULEBASE")
	}
	g, err := compileRulebase(log, args[1])
	if err != nil {
		return err
	}
	defer func() {
		_ = g.Close()
	}()
	fmt.Printf("%d rule(s), %d node(s), %d edge(s)\n", g.RuleCount(), g.NodeCount(), g.EdgeCount())
	return nil
}

func doPrintTypes() {
	fmt.Println("Field types select how a sample placeholder consumes input at match time.")
	fmt.Println()
	fmt.Print(fields.DefaultRegistry().AllDocs())
}
