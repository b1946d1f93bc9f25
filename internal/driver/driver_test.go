package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlox-tools/mlox/internal/canon"
)

type fakeActiveSource struct {
	names []string
}

func (f *fakeActiveSource) Load(reg *canon.Registry) ([]string, error) {
	cnames := make([]string, len(f.names))
	for i, n := range f.names {
		cnames[i] = reg.Canonical(n)
	}
	return cnames, nil
}

type fakeDescriptions map[string]string

func (f fakeDescriptions) Description(cname string) (string, error) {
	return f[cname], nil
}

type fakeWriter struct {
	committed []string
}

func (f *fakeWriter) Commit(order []string) error {
	f.committed = order
	return nil
}

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_MissingBaseRuleFileIsFatal(t *testing.T) {
	active := &fakeActiveSource{names: []string{"a.esp", "b.esp"}}
	d := New(active, fakeDescriptions{}, &fakeWriter{}, "", "/no/such/rules.txt")

	_, err := d.Run()
	if err == nil {
		t.Fatal("expected an error for a missing base rule file")
	}
}

func TestRun_MissingUserRuleFileIsTolerated(t *testing.T) {
	active := &fakeActiveSource{names: []string{"a.esp", "b.esp"}}
	base := writeRuleFile(t, "")
	d := New(active, fakeDescriptions{}, &fakeWriter{}, "/no/such/user.txt", base)

	result, err := d.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Computed) != 2 {
		t.Errorf("expected both plugins in the computed order, got %v", result.Computed)
	}
}

func TestRun_OrderRuleReordersPlugins(t *testing.T) {
	active := &fakeActiveSource{names: []string{"a.esp", "b.esp"}}
	base := writeRuleFile(t, "[ORDER]\nb.esp\na.esp\n")
	d := New(active, fakeDescriptions{}, &fakeWriter{}, "", base)

	result, err := d.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Computed) != 2 || result.Computed[0] != "b.esp" || result.Computed[1] != "a.esp" {
		t.Errorf("expected [b.esp a.esp], got %v", result.Computed)
	}
}

func TestRun_MastersAlwaysBeforePlugins(t *testing.T) {
	active := &fakeActiveSource{names: []string{"b.esp", "z.esm", "a.esp"}}
	base := writeRuleFile(t, "")
	d := New(active, fakeDescriptions{}, &fakeWriter{}, "", base)

	result, err := d.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Computed[0] != "z.esm" {
		t.Errorf("expected the master first, got %v", result.Computed)
	}
}

func TestRun_ComputesMoveDiff(t *testing.T) {
	// a.esp, b.esp -> b.esp, a.esp: b.esp moved up (2 -> 1) and is
	// highlighted; a.esp merely shifted later (1 -> 2) because b.esp
	// moved ahead of it, and spec.md §4.6 step 7 highlights only
	// up-moves.
	active := &fakeActiveSource{names: []string{"a.esp", "b.esp"}}
	base := writeRuleFile(t, "[ORDER]\nb.esp\na.esp\n")
	d := New(active, fakeDescriptions{}, &fakeWriter{}, "", base)

	result, err := d.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Moved) != 1 {
		t.Fatalf("expected only the up-moved plugin to be highlighted, got %v", result.Moved)
	}
	if result.Moved[0].Truename != "b.esp" {
		t.Errorf("expected b.esp to be the highlighted move, got %v", result.Moved[0])
	}
	if result.Moved[0].FromIndex != 2 || result.Moved[0].ToIndex != 1 {
		t.Errorf("expected FromIndex=2 ToIndex=1, got %+v", result.Moved[0])
	}
}

func TestResult_CommitWritesThroughToOrderWriter(t *testing.T) {
	active := &fakeActiveSource{names: []string{"a.esp", "b.esp"}}
	base := writeRuleFile(t, "[ORDER]\nb.esp\na.esp\n")
	writer := &fakeWriter{}
	d := New(active, fakeDescriptions{}, writer, "", base)

	result, err := d.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := result.Commit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.committed) != 2 {
		t.Errorf("expected the computed order to be committed, got %v", writer.committed)
	}
}

func TestResult_CommitRefusesWhenAlreadySorted(t *testing.T) {
	active := &fakeActiveSource{names: []string{"a.esp", "b.esp"}}
	base := writeRuleFile(t, "")
	writer := &fakeWriter{}
	d := New(active, fakeDescriptions{}, writer, "", base)

	result, err := d.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.AlreadySorted {
		t.Fatal("expected the computed order to equal the input order")
	}
	foundMessage := false
	for _, line := range result.Messages {
		if strings.Contains(line, "already sorted") {
			foundMessage = true
		}
	}
	if !foundMessage {
		t.Errorf("expected an 'already sorted' message, got %v", result.Messages)
	}
	if err := result.Commit(); !errors.Is(err, ErrAlreadySorted) {
		t.Errorf("expected ErrAlreadySorted, got %v", err)
	}
	if writer.committed != nil {
		t.Errorf("expected no commit to reach the writer, got %v", writer.committed)
	}
}

func TestRun_NoActivePluginsIsMissingActiveSource(t *testing.T) {
	active := &fakeActiveSource{names: nil}
	base := writeRuleFile(t, "")
	d := New(active, fakeDescriptions{}, &fakeWriter{}, "", base)

	_, err := d.Run()
	if err == nil {
		t.Fatal("expected an error for an empty active plugin list")
	}
}
