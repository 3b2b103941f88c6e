// Command u32sort sorts files of raw native-endian uint32 values that do not
// fit in memory, and generates and checks such files.
//
//	u32sort [sort] [-i input] [-o output] [-m bytes] [-t threads]
//	u32sort gen -n count [-s seed] [-o file] [-w workers]
//	u32sort check [--input file] [--expect file] output
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/lanrat/u32sort"
	"github.com/lanrat/u32sort/gen"
	"github.com/lanrat/u32sort/verify"
)

// exit codes of the gen and check commands
const (
	exitOK       = 0
	exitMismatch = 1
	exitUsage    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "sort":
			return runSort(ctx, args[1:], stdout, stderr)
		case "gen":
			return runGen(ctx, args[1:], stdout, stderr)
		case "check":
			return runCheck(ctx, args[1:], stdout, stderr)
		case "help", "-h", "--help":
			printUsage(stdout)
			return exitOK
		}
	}
	return runSort(ctx, args, stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  u32sort [sort] [-i input] [-o output] [-m bytes] [-t threads] [--scratch-dir dir] [--scratch-prefix prefix] [-v]")
	fmt.Fprintln(w, "  u32sort gen -n count [-s seed] [-o file] [-w workers]")
	fmt.Fprintln(w, "  u32sort check [--input file] [--expect file] output")
}

func runSort(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("sort", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := u32sort.DefaultConfig()
	var input, output string
	var verbose bool
	fs.StringVarP(&input, "input", "i", "input", "file to sort")
	fs.StringVarP(&output, "output", "o", "output", "file to write the sorted elements to")
	fs.Int64VarP(&cfg.MemoryBudget, "memory", "m", cfg.MemoryBudget, "memory budget in bytes")
	fs.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "number of sort workers")
	fs.StringVar(&cfg.ScratchDir, "scratch-dir", cfg.ScratchDir, "directory for scratch files (default working directory)")
	fs.StringVar(&cfg.ScratchPrefix, "scratch-prefix", cfg.ScratchPrefix, "filename prefix for scratch files")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log per worker progress")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return int(u32sort.StatusInvalidConfig)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return int(u32sort.StatusInvalidConfig)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	res, err := u32sort.Sort(ctx, input, output, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "sort failed: %v\n", err)
		return int(res.Status)
	}
	fmt.Fprintf(stdout, "sorted %d elements in %s\n", res.Elements, res.Elapsed)
	return int(res.Status)
}

func runGen(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("gen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		count   int64
		seed    uint64
		output  string
		workers int
	)
	fs.Int64VarP(&count, "count", "n", 1000, "number of elements to generate")
	fs.Uint64VarP(&seed, "seed", "s", 1, "generator seed")
	fs.StringVarP(&output, "output", "o", "input", "file to write")
	fs.IntVarP(&workers, "workers", "w", 4, "concurrent writers")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if err := gen.Write(ctx, output, count, seed, workers); err != nil {
		fmt.Fprintf(stderr, "gen failed: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stdout, "wrote %d elements to %s\n", count, output)
	return exitOK
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var input, expect string
	fs.StringVar(&input, "input", "", "unsorted file the output must hold the same elements as")
	fs.StringVar(&expect, "expect", "", "sorted file the output must equal, differences are printed")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "check requires exactly one output file")
		printUsage(stderr)
		return exitUsage
	}
	output := fs.Arg(0)

	report, err := verify.Check(output)
	if err != nil {
		fmt.Fprintf(stderr, "check failed: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stdout, "%s: %d elements, fingerprint %s\n", output, report.Elements, report.Fingerprint)
	code := exitOK
	if !report.Sorted() {
		fmt.Fprintf(stdout, "%s: not sorted at element %d\n", output, report.FirstUnsorted)
		code = exitMismatch
	}
	if report.TrailingBytes != 0 {
		fmt.Fprintf(stdout, "%s: %d trailing bytes\n", output, report.TrailingBytes)
		code = exitMismatch
	}

	if input != "" {
		in, err := verify.Check(input)
		if err != nil {
			fmt.Fprintf(stderr, "check failed: %v\n", err)
			return exitUsage
		}
		if in.Fingerprint != report.Fingerprint {
			fmt.Fprintf(stdout, "%s: fingerprint %s does not match input %s\n", output, report.Fingerprint, in.Fingerprint)
			code = exitMismatch
		}
	}

	if expect != "" {
		r, err := verify.DiffFiles(ctx, expect, output, verify.Printer(stdout))
		if err != nil {
			fmt.Fprintf(stderr, "diff failed: %v\n", err)
			return exitUsage
		}
		if !r.Equal() {
			fmt.Fprintf(stdout, "%s differs from %s: %s\n", output, expect, r.String())
			code = exitMismatch
		}
	}
	return code
}
