package runner

import (
	"context"
	"strings"
	"testing"
)

func TestProductPublisher_EmptyArtifactsIsNoop(t *testing.T) {
	// No notification is ever published for a job without products;
	// the nil mq publisher would panic if Publish tried to use it
	p := NewProductPublisher(nil, []string{"/AFIMG"}, "norrkoping", "prod", discardLogger())

	if err := p.Publish(context.Background(), nil, map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProductPublisher_BuildTopic(t *testing.T) {
	p := NewProductPublisher(nil, nil, "norrkoping", "prod", discardLogger())

	cases := []struct {
		base string
		want string
	}{
		{"/AFIMG", "/AFIMG/2/norrkoping/prod/polar/direct_readout"},
		{"AFIMG", "/AFIMG/2/norrkoping/prod/polar/direct_readout"},
		{"/AFIMG/", "/AFIMG/2/norrkoping/prod/polar/direct_readout"},
	}

	for _, tc := range cases {
		if got := p.buildTopic(tc.base); got != tc.want {
			t.Errorf("buildTopic(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestProductPublisher_BuildData(t *testing.T) {
	p := NewProductPublisher(nil, nil, "norrkoping", "utv", discardLogger())

	orig := map[string]any{
		"platform_name": "Suomi-NPP",
		"sensor":        "viirs",
		"orbit_number":  47858,
		"dataset":       []map[string]any{{"uri": "ssh://h/in.h5", "uid": "in.h5"}},
	}
	artifacts := []string{
		"/san1/out/AFIMG_npp_d20210413_t0916182_e0917424_b47858_c1_cspp_dev.nc",
		"/san1/out/AFIMG_npp_d20210413_t0916182_e0917424_b47858_c1_cspp_dev.txt",
	}

	data := p.buildData(artifacts, orig)

	if data["format"] != "EDR" || data["type"] != "NETCDF" || data["data_processing_level"] != "2" {
		t.Errorf("fixed fields wrong: %v", data)
	}
	if data["platform_name"] != "Suomi-NPP" {
		t.Error("original fields should be carried over")
	}

	// Input dataset is replaced by the product entries
	dataset, ok := data["dataset"].([]map[string]any)
	if !ok || len(dataset) != 2 {
		t.Fatalf("dataset = %v", data["dataset"])
	}
	uri, _ := dataset[0]["uri"].(string)
	if !strings.HasPrefix(uri, "ssh://") || !strings.HasSuffix(uri, artifacts[0]) {
		t.Errorf("uri = %q", uri)
	}
	if dataset[0]["uid"] != "AFIMG_npp_d20210413_t0916182_e0917424_b47858_c1_cspp_dev.nc" {
		t.Errorf("uid = %v", dataset[0]["uid"])
	}

	// Granule times come from the first product name
	if data["start_time"] != "2021-04-13T09:16:18" {
		t.Errorf("start_time = %v", data["start_time"])
	}
	if data["end_time"] != "2021-04-13T09:17:42" {
		t.Errorf("end_time = %v", data["end_time"])
	}

	if data["orbit_number"] != 47858 || data["orig_orbit_number"] != 47858 {
		t.Errorf("orbit fields wrong: %v / %v", data["orbit_number"], data["orig_orbit_number"])
	}
}

func TestProductPublisher_BuildDataUnparsableName(t *testing.T) {
	p := NewProductPublisher(nil, nil, "norrkoping", "utv", discardLogger())

	data := p.buildData([]string{"/out/strange_name.nc"}, map[string]any{})

	// Times are simply absent, the notification is still built
	if _, ok := data["start_time"]; ok {
		t.Error("start_time should be absent for unparsable names")
	}
	if data["format"] != "EDR" {
		t.Error("fixed fields should still be set")
	}
}
