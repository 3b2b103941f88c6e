package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lanrat/u32sort"
	"github.com/lanrat/u32sort/internal/raw"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeElements(t *testing.T, path string, elems ...uint32) {
	t.Helper()
	if err := os.WriteFile(path, raw.Bytes(elems), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunGenSortCheck(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	in := filepath.Join(base, "in")
	out := filepath.Join(base, "out")

	if code, _, stderr := runCLI(t, "gen", "-n", "5000", "-s", "42", "-o", in); code != 0 {
		t.Fatalf("gen exited %d: %s", code, stderr)
	}
	code, stdout, stderr := runCLI(t, "sort", "-i", in, "-o", out, "-m", "4096", "-t", "3", "--scratch-dir", base)
	if code != 0 {
		t.Fatalf("sort exited %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "sorted 5000 elements") {
		t.Fatalf("unexpected sort output %q", stdout)
	}
	if code, stdout, stderr := runCLI(t, "check", "--input", in, out); code != 0 {
		t.Fatalf("check exited %d: %s%s", code, stdout, stderr)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected only input and output in %s, found %d entries", base, len(entries))
	}
}

func TestRunDefaultsToSort(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	in := filepath.Join(base, "in")
	out := filepath.Join(base, "out")
	writeElements(t, in, 5, 3, 3, 1)

	if code, _, stderr := runCLI(t, "-i", in, "-o", out, "--scratch-dir", base); code != 0 {
		t.Fatalf("sort exited %d: %s", code, stderr)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, raw.Bytes([]uint32{1, 3, 3, 5})) {
		t.Fatalf("unexpected output bytes %v", got)
	}
}

func TestRunSortExitStatus(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	code, _, _ := runCLI(t, "-i", filepath.Join(base, "missing"), "-o", filepath.Join(base, "out"))
	if code != int(u32sort.StatusInputNotFound) {
		t.Fatalf("missing input exited %d, expected %d", code, u32sort.StatusInputNotFound)
	}
	code, _, _ = runCLI(t, "-t", "-1", "-i", filepath.Join(base, "missing"))
	if code != int(u32sort.StatusInvalidConfig) {
		t.Fatalf("negative threads exited %d, expected %d", code, u32sort.StatusInvalidConfig)
	}
	code, _, _ = runCLI(t, "--no-such-flag")
	if code != int(u32sort.StatusInvalidConfig) {
		t.Fatalf("unknown flag exited %d, expected %d", code, u32sort.StatusInvalidConfig)
	}
}

func TestRunCheckMismatch(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	unsorted := filepath.Join(base, "unsorted")
	writeElements(t, unsorted, 2, 1)
	code, stdout, _ := runCLI(t, "check", unsorted)
	if code != exitMismatch || !strings.Contains(stdout, "not sorted at element 1") {
		t.Fatalf("check exited %d with %q", code, stdout)
	}

	sorted := filepath.Join(base, "sorted")
	want := filepath.Join(base, "want")
	writeElements(t, sorted, 1, 2, 4)
	writeElements(t, want, 1, 2, 3)
	code, stdout, _ = runCLI(t, "check", "--expect", want, sorted)
	if code != exitMismatch {
		t.Fatalf("check exited %d, expected %d", code, exitMismatch)
	}
	if !strings.Contains(stdout, "< 3\n") || !strings.Contains(stdout, "> 4\n") {
		t.Fatalf("diff not printed: %q", stdout)
	}
}

func TestRunCheckUsage(t *testing.T) {
	t.Parallel()

	if code, _, _ := runCLI(t, "check"); code != exitUsage {
		t.Fatalf("check without output exited %d, expected %d", code, exitUsage)
	}
	missing := filepath.Join(t.TempDir(), "missing")
	if code, _, _ := runCLI(t, "check", missing); code != exitUsage {
		t.Fatalf("check of missing file exited %d, expected %d", code, exitUsage)
	}
}
