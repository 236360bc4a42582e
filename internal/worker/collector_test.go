package worker

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollector_IBands(t *testing.T) {
	workDir := t.TempDir()

	touch(t, workDir, "AFIMG_npp_d20210413_t0916182_e0917424_b1_c1_cspp_dev.nc")
	touch(t, workDir, "AFIMG_npp_d20210413_t0916182_e0917424_b1_c1_cspp_dev.txt")
	// M-band product and CSPP intermediates must not be picked up
	touch(t, workDir, "AFMOD_npp_d20210413_t0916182_e0917424_b1_c1_cspp_dev.nc")
	touch(t, workDir, "SVI01_npp_d20210413_t0916182_e0917424_b1_c1_cspp_dev.h5")
	touch(t, workDir, "cspp_active_fire.log")

	files, err := NewCollector(false).Collect(workDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("collected %d files, want 2: %v", len(files), files)
	}
	// Lexicographic order: .nc sorts before .txt
	if filepath.Ext(files[0]) != ".nc" || filepath.Ext(files[1]) != ".txt" {
		t.Errorf("unexpected order: %v", files)
	}
}

func TestCollector_MBands(t *testing.T) {
	workDir := t.TempDir()

	touch(t, workDir, "AFMOD_j01_d20210414_t1030005_e1031250_b1_c1_cspp_dev.nc")
	touch(t, workDir, "AFIMG_j01_d20210414_t1030005_e1031250_b1_c1_cspp_dev.nc")

	files, err := NewCollector(true).Collect(workDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("collected %d files, want 1: %v", len(files), files)
	}
	if filepath.Base(files[0])[:6] != "AFMOD_" {
		t.Errorf("expected AFMOD product, got %s", files[0])
	}
}

func TestCollector_EmptyWorkDir(t *testing.T) {
	files, err := NewCollector(false).Collect(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}
