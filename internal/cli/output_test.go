package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{w: &buf, errW: &bytes.Buffer{}}

	out.Print(
		[]string{"ID", "STATUS"},
		[][]string{{"j1", "SUCCEEDED"}, {"j2", "EMPTY"}},
		nil,
	)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "STATUS") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "EMPTY") {
		t.Errorf("row line = %q", lines[2])
	}
}

func TestOutput_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{json: true, w: &buf, errW: &bytes.Buffer{}}

	out.Print([]string{"ID"}, [][]string{{"j1"}}, map[string]string{"id": "j1"})

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["id"] != "j1" {
		t.Errorf("decoded = %v", decoded)
	}
	if strings.Contains(buf.String(), "ID\t") {
		t.Error("JSON mode must not emit the table")
	}
}

func TestOutput_SuccessGoesToStderr(t *testing.T) {
	var dataBuf, msgBuf bytes.Buffer
	out := &Output{w: &dataBuf, errW: &msgBuf}

	out.Success("done")

	if dataBuf.Len() != 0 {
		t.Error("messages must not pollute the data stream")
	}
	if strings.TrimSpace(msgBuf.String()) != "done" {
		t.Errorf("stderr = %q", msgBuf.String())
	}
}
