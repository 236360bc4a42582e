package edr

import (
	"testing"
	"time"
)

func TestParseTimes(t *testing.T) {
	filename := "AFIMG_npp_d20210413_t0916182_e0917424_b47858_c20210413093021100000_cspp_dev.txt"

	start, end, err := ParseTimes(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2021, 4, 13, 9, 16, 18, 0, time.UTC)
	wantEnd := time.Date(2021, 4, 13, 9, 17, 42, 0, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestParseTimes_FullPath(t *testing.T) {
	// Paths are accepted, only the basename matters
	filename := "/san1/polar_out/direct_readout/AFIMG_j01_d20210414_t1030005_e1031250_b17637_c20210414104916_cspp_dev.nc"

	start, _, err := ParseTimes(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2021, 4, 14, 10, 30, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
}

func TestParseTimes_MidnightRollover(t *testing.T) {
	// End time before start time means the granule crossed midnight
	filename := "AFIMG_npp_d20210413_t2359300_e0000542_b47858_c20210414002021_cspp_dev.txt"

	start, end, err := ParseTimes(filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2021, 4, 13, 23, 59, 30, 0, time.UTC)
	wantEnd := time.Date(2021, 4, 14, 0, 0, 54, 0, time.UTC)

	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
	if !end.After(start) {
		t.Error("end must be after start when the granule crosses midnight")
	}
}

func TestParseTimes_Malformed(t *testing.T) {
	cases := []struct {
		name     string
		filename string
	}{
		{"empty", ""},
		{"too few fields", "AFIMG_npp_d20210413.txt"},
		{"bad date prefix", "AFIMG_npp_x20210413_t0916182_e0917424_b1_c1_cspp_dev.txt"},
		{"short date", "AFIMG_npp_d2021041_t0916182_e0917424_b1_c1_cspp_dev.txt"},
		{"bad start prefix", "AFIMG_npp_d20210413_x0916182_e0917424_b1_c1_cspp_dev.txt"},
		{"non-numeric time", "AFIMG_npp_d20210413_tabcdefg_e0917424_b1_c1_cspp_dev.txt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParseTimes(tc.filename); err == nil {
				t.Errorf("expected error for %q", tc.filename)
			}
		})
	}
}
