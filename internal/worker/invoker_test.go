package worker

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCSPP writes a shell script that mimics a CSPP run: it produces
// one EDR file in the working directory and exits with the given code.
func fakeCSPP(t *testing.T, exitCode string) string {
	t.Helper()
	script := "#!/bin/sh\n" +
		"echo \"fake cspp: $@\"\n" +
		"touch AFIMG_npp_d20210413_t0916182_e0917424_b1_c1_cspp_dev.txt\n" +
		"exit " + exitCode + "\n"

	path := filepath.Join(t.TempDir(), "cspp_active_fire_noaa.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvoker_Invoke(t *testing.T) {
	base := t.TempDir()
	invoker := NewInvoker(InvokerConfig{
		AFCall:      fakeCSPP(t, "0"),
		NumCPUs:     2,
		WorkDirBase: base,
		Logger:      discardLogger(),
	})

	workDir, err := invoker.Invoke(context.Background(), []string{"/data/SVI01.h5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Dir(workDir) != base {
		t.Errorf("workdir %s not under base %s", workDir, base)
	}

	// The process runs with the workdir as cwd
	matches, _ := filepath.Glob(filepath.Join(workDir, "AFIMG_*"))
	if len(matches) != 1 {
		t.Errorf("expected one EDR file in workdir, got %v", matches)
	}
}

func TestInvoker_OverlongOutputLine(t *testing.T) {
	// A line beyond the scanner buffer cap must not stall the run:
	// the pipe has to be drained so the process can finish
	script := "#!/bin/sh\n" +
		"head -c 3000000 /dev/zero | tr '\\0' 'x'\n" +
		"echo\n" +
		"touch AFIMG_npp_d20210413_t0916182_e0917424_b1_c1_cspp_dev.txt\n"

	path := filepath.Join(t.TempDir(), "cspp_active_fire_noaa.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	invoker := NewInvoker(InvokerConfig{
		AFCall:      path,
		WorkDirBase: t.TempDir(),
		Logger:      discardLogger(),
	})

	type invocation struct {
		workDir string
		err     error
	}
	done := make(chan invocation, 1)
	go func() {
		workDir, err := invoker.Invoke(context.Background(), []string{"/data/SVI01.h5"})
		done <- invocation{workDir, err}
	}()

	select {
	case inv := <-done:
		if inv.err != nil {
			t.Fatalf("unexpected error: %v", inv.err)
		}
		matches, _ := filepath.Glob(filepath.Join(inv.workDir, "AFIMG_*"))
		if len(matches) != 1 {
			t.Errorf("expected one EDR file, got %v", matches)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Invoke did not return for a process with an over-long output line")
	}
}

func TestInvoker_NonZeroExitStillReturnsWorkDir(t *testing.T) {
	invoker := NewInvoker(InvokerConfig{
		AFCall:      fakeCSPP(t, "2"),
		WorkDirBase: t.TempDir(),
		Logger:      discardLogger(),
	})

	// Exit code is not interpreted: presence of products decides,
	// so the workdir must come back for collection and cleanup
	workDir, err := invoker.Invoke(context.Background(), []string{"/data/SVI01.h5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if workDir == "" {
		t.Fatal("expected workdir despite non-zero exit")
	}
	if _, statErr := os.Stat(workDir); statErr != nil {
		t.Errorf("workdir should exist: %v", statErr)
	}
}

func TestInvoker_MissingExecutable(t *testing.T) {
	invoker := NewInvoker(InvokerConfig{
		AFCall:      "/nonexistent/cspp.sh",
		WorkDirBase: t.TempDir(),
		Logger:      discardLogger(),
	})

	workDir, err := invoker.Invoke(context.Background(), []string{"/data/SVI01.h5"})
	if err == nil {
		t.Fatal("expected error for missing executable")
	}
	// Workdir was already created and must be reported for cleanup
	if workDir == "" {
		t.Error("expected workdir even on start failure")
	}
}
