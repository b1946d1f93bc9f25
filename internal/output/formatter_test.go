package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlox-tools/mlox/internal/driver"
)

func TestTextFormatter_WarningsOnlySuppressesOrderListing(t *testing.T) {
	result := &driver.Result{
		Messages: []string{"Warning: something"},
		Computed: []string{"a.esp", "b.esp"},
	}
	f := &TextFormatter{WarningsOnly: true}
	out, err := f.Format(result)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Warning: something") {
		t.Errorf("expected diagnostics to be present, got %q", out)
	}
	if strings.Contains(out, "Proposed load order") {
		t.Errorf("expected the order listing to be suppressed, got %q", out)
	}
}

func TestTextFormatter_MarksMovedPlugins(t *testing.T) {
	// Only up-moves ever appear in Moved (computeMoves, spec.md §4.6
	// step 7); a.esp merely shifted later here and is not marked.
	result := &driver.Result{
		Computed: []string{"b.esp", "a.esp"},
		Moved: []driver.MoveEntry{
			{Truename: "b.esp", FromIndex: 2, ToIndex: 1},
		},
	}
	f := &TextFormatter{}
	out, err := f.Format(result)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "*   1  b.esp") {
		t.Errorf("expected b.esp marked as moved, got %q", out)
	}
	if strings.Contains(out, "*   2  a.esp") {
		t.Errorf("expected a.esp not to be marked as moved, got %q", out)
	}
}

func TestWriteOrderListing_OneTruenamePerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.txt")
	if err := WriteOrderListing(path, []string{"Morrowind.esm", "a.esp"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Morrowind.esm\na.esp\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, string(data))
	}
}
