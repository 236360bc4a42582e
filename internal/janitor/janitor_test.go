package janitor

import (
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

func makeDir(t *testing.T, base, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(base, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSweep(t *testing.T) {
	base := t.TempDir()

	stale := makeDir(t, base, "cspp_af_12345", 48*time.Hour)
	fresh := makeDir(t, base, "cspp_af_67890", time.Hour)
	foreign := makeDir(t, base, "other_dir", 48*time.Hour)

	j, err := New(Config{
		WorkDirBase: base,
		MaxAge:      24 * time.Hour,
		Logger:      discardLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	removed, err := j.Sweep(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale workdir should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh workdir must survive")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("directories without the cspp_af_ prefix must not be touched")
	}
}

func TestSweep_EmptyBaseIsNoop(t *testing.T) {
	j, err := New(Config{Logger: discardLogger()})
	if err != nil {
		t.Fatal(err)
	}

	removed, err := j.Sweep(time.Now())
	if err != nil || removed != 0 {
		t.Errorf("Sweep() = %d, %v; want 0, nil", removed, err)
	}
}

func TestSweep_MissingBase(t *testing.T) {
	j, err := New(Config{
		WorkDirBase: "/nonexistent/workdirs",
		Logger:      discardLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := j.Sweep(time.Now()); err == nil {
		t.Error("expected error for missing base directory")
	}
}

func TestNew_InvalidCron(t *testing.T) {
	_, err := New(Config{
		WorkDirBase: t.TempDir(),
		CronExpr:    "not a cron",
		Logger:      discardLogger(),
	})
	if err == nil {
		t.Error("expected error for invalid cron expression")
	}
}
