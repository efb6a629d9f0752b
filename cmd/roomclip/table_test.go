package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"SESSION", "STATUS", "CLIPS"},
		[][]string{
			{"sess-1", "ready", "3"},
			{"sess-2"},
		},
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	)
	for _, want := range []string{"SESSION", "STATUS", "CLIPS", "sess-1", "ready", "sess-2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"orphan"}}, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
