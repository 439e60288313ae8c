package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "reconcile error",
			code:    ErrUnsupportedValue,
			wantMsg: "Unsupported declarative value",
			wantCat: CategoryReconcile,
		},
		{
			name:    "journal error",
			code:    ErrUnknownOpcode,
			wantMsg: "Unsupported journal opcode",
			wantCat: CategoryJournal,
		},
		{
			name:    "fixture error",
			code:    ErrFixtureComponent,
			wantMsg: "Unknown component in fixture",
			wantCat: CategoryFixture,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := New(ErrDeferredRejected)
	if got, want := err.Error(), "R006: Deferred value rejected"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("timeout")
	err.Wrap(cause)
	if got, want := err.Error(), "R006: Deferred value rejected: timeout"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, ErrConfigRead) != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New(ErrConfigParse)
	wrapped := fmt.Errorf("loading: %w", orig)
	if got := FromError(wrapped, ErrConfigRead); got != orig {
		t.Errorf("FromError should return the wrapped *Error, got %v", got)
	}

	got := FromError(os.ErrNotExist, ErrConfigRead)
	if got.Code != ErrConfigRead || got.Wrapped != os.ErrNotExist {
		t.Errorf("FromError = %+v", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("diff: %w", New(ErrDeferredRejected).Wrap(New(ErrRenderFailed)))
	if !HasCode(err, ErrDeferredRejected) {
		t.Error("HasCode(R006) = false")
	}
	if !HasCode(err, ErrRenderFailed) {
		t.Error("HasCode(R007) = false")
	}
	if HasCode(err, ErrUnknownOpcode) {
		t.Error("HasCode(R004) = true")
	}
}

func TestWithOffset(t *testing.T) {
	data := []byte("{\n  \"a\": 1,\n  \"b\" 2\n}")
	var v any
	jerr := json.Unmarshal(data, &v)
	var syn *json.SyntaxError
	if !stderrors.As(jerr, &syn) {
		t.Fatalf("expected a syntax error, got %v", jerr)
	}

	err := New(ErrFixtureParse).Wrap(jerr).WithOffset("f.json", data, syn.Offset)
	if err.Location.Line != 3 {
		t.Errorf("Line = %d, want 3", err.Location.Line)
	}
	if got := err.Location.String(); !strings.HasPrefix(got, "f.json:3:") {
		t.Errorf("Location = %q", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(ErrUnsupportedValue).
		Wrap(fmt.Errorf("chan int")).
		WithSuggestion("wrap the value in a Signal")
	out := err.Format()

	for _, want := range []string{
		"ERROR R001: Unsupported declarative value",
		"Cause: chan int",
		"Hint: wrap the value in a Signal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	var buf bytes.Buffer
	Print(&buf, err)
	if buf.String() != out {
		t.Error("Print should write Format output for *Error")
	}
	buf.Reset()
	Print(&buf, fmt.Errorf("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Print(plain) = %q", buf.String())
	}
}

func TestPrintWrapped(t *testing.T) {
	DisableColors()
	defer EnableColors()

	inner := New(ErrFixtureParse).WithDetail("bad tree")
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"direct", inner, []string{"ERROR F002: Fixture parse failed"}},
		{"wrapped", fmt.Errorf("old tree 1: %w", inner), []string{"old tree 1\n", "ERROR F002: Fixture parse failed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Print(&buf, tt.err)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Print() missing %q in:\n%s", want, buf.String())
				}
			}
			if strings.Contains(buf.String(), "ERROR: ") {
				t.Errorf("Print() fell back to the plain form:\n%s", buf.String())
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestAllCodesRegistered(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != 13 {
		t.Errorf("registered codes = %d, want 13", len(codes))
	}
	if !sort.StringsAreSorted(codes) {
		t.Errorf("GetAllCodes() not sorted: %v", codes)
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
	}
}
