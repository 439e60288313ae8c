package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/reconcile/internal/errors"
)

func project(t *testing.T, fixtures map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "fixtures"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := `{"log": {"level": "error"}, "metrics": {"enabled": true}}`
	if err := os.WriteFile(filepath.Join(dir, "reconcile.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	for name, data := range fixtures {
		if err := os.WriteFile(filepath.Join(dir, "fixtures", name+".json"), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "reconcile.json")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const listBefore = `{"trees": [
  {"tag": "ul", "children": [
    {"tag": "li", "key": "a", "children": ["a"]},
    {"tag": "li", "key": "b", "children": ["b"]}
  ]}
]}`

const listAfter = `{"trees": [
  {"tag": "ul", "children": [
    {"tag": "li", "key": "b", "children": ["b"]},
    {"tag": "li", "key": "a", "children": ["a"]}
  ]}
]}`

func TestReplay(t *testing.T) {
	cfg := project(t, map[string]string{"before": listBefore})

	out, err := run(t, "--config", cfg, "replay", "before")
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	for _, want := range []string{"frame 1 (", "ElementInsert", `<ul><li q:key="a">a</li><li q:key="b">b</li></ul>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--config", cfg, "replay", "before", "-q")
	if err != nil {
		t.Fatalf("replay -q error: %v", err)
	}
	if strings.Contains(out, "frame") {
		t.Errorf("quiet output printed frames:\n%s", out)
	}
}

func TestDiff(t *testing.T) {
	cfg := project(t, map[string]string{"before": listBefore, "after": listAfter})

	out, err := run(t, "--config", cfg, "diff", "before", "after")
	if err != nil {
		t.Fatalf("diff error: %v", err)
	}
	if !strings.Contains(out, "frame 1 (1 ops)") || !strings.Contains(out, "Move") {
		t.Errorf("diff output should hold a single Move:\n%s", out)
	}
	if !strings.Contains(out, `<ul><li q:key="b">b</li><li q:key="a">a</li></ul>`) {
		t.Errorf("diff output missing final markup:\n%s", out)
	}
}

func TestMissingFixture(t *testing.T) {
	cfg := project(t, nil)
	_, err := run(t, "--config", cfg, "replay", "nope")
	if !errors.HasCode(err, errors.ErrFixtureNotFound) {
		t.Errorf("error = %v, want F001", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	cfg := project(t, nil)
	_, err := run(t, "--config", cfg, "--log-level", "loud", "replay", "x")
	if !errors.HasCode(err, errors.ErrConfigInvalid) {
		t.Errorf("error = %v, want C003", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{"all", []string{"codes"}, []string{"C001", "F003", "R001", "Unsupported declarative value"}, false},
		{"one", []string{"codes", "f002"}, []string{"F002", "fixture", "Fixture parse failed"}, false},
		{"verbose", []string{"codes", "-v", "F003"}, []string{"A component node names a template"}, false},
		{"unknown", []string{"codes", "X999"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	out, _ := run(t, "codes")
	if i, j := strings.Index(out, "C001"), strings.Index(out, "R001"); i < 0 || j < i {
		t.Errorf("codes not sorted:\n%s", out)
	}
}

func TestNoColor(t *testing.T) {
	t.Cleanup(errors.EnableColors)

	if _, err := run(t, "--no-color", "codes", "R001"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	errors.Print(&buf, errors.New(errors.ErrFixtureParse))
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("Print() wrote escape codes after --no-color: %q", buf.String())
	}
}
