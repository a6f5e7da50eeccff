package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
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
			name:    "registry miss",
			code:    "E001",
			wantMsg: "Component registry lookup failed",
			wantCat: CategoryRuntime,
		},
		{
			name:    "config error",
			code:    "E102",
			wantMsg: "Configuration is invalid",
			wantCat: CategoryConfig,
		},
		{
			name:    "routing error",
			code:    "E301",
			wantMsg: "Lazy route module failed to load",
			wantCat: CategoryRouting,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "cell %q missing", "7")
	if err.Message != `cell "7" missing` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `cell "7" missing` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New("E001").WithField("component", "3.1").WithField("cell", "9")
	want := "E001: Component registry lookup failed (cell=9, component=3.1)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("disk full")
	wrapped := New("E201").Wrap(cause)
	if !strings.HasSuffix(wrapped.Error(), ": disk full") {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("loading: %w", New("E101"))
	if !stderrors.Is(err, New("E101")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New("E102")) {
		t.Error("different codes must not match")
	}
	if !HasCode(err, "E101") || HasCode(err, "E102") || HasCode(fmt.Errorf("x"), "E101") {
		t.Error("HasCode mismatch")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E201") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E102")
	if got := FromError(fmt.Errorf("ctx: %w", orig), "E201"); got != orig {
		t.Error("FromError should unwrap an existing *Error")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E201")
	if got.Code != "E201" || got.Wrapped != plain {
		t.Errorf("FromError() = %#v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer func() { colorMode = 0 }()

	err := New("E001").
		WithField("component", "2.1").
		WithSuggestion("Render nodes through a binding").
		Wrap(stderrors.New("no entry"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E001: Component registry lookup failed",
		"component=2.1",
		"Cause: no entry",
		"Hint: Render nodes through a binding",
		"Learn more: https://ive.dev/docs/errors/E001",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E201").Wrap(stderrors.New("denied"))
	if got := err.FormatCompact(); got != "E201: Snapshot export failed: denied" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E302").WithField("path", "/x")
	var decoded map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &decoded); e != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", e)
	}
	if decoded["code"] != "E302" || decoded["category"] != string(CategoryRouting) {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer func() { colorMode = 0 }()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Fprint() = %q", buf.String())
	}
}

func TestRegistryHelpers(t *testing.T) {
	if len(GetAllCodes()) == 0 {
		t.Fatal("no codes registered")
	}
	if _, ok := GetTemplate("E001"); !ok {
		t.Error("E001 should be registered")
	}
	Register("E998", ErrorTemplate{Category: CategoryServer, Message: "custom"})
	if New("E998").Message != "custom" {
		t.Error("Register did not add template")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q longer than width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestColorsFor(t *testing.T) {
	defer func() { colorMode = 0 }()

	var buf bytes.Buffer
	if colorsFor(&buf) {
		t.Error("a buffer is not a terminal")
	}
	EnableColors()
	if !colorsFor(&buf) {
		t.Error("EnableColors should force styling")
	}
	Fprint(&buf, New("E003"))
	if !strings.Contains(buf.String(), "\033[") {
		t.Errorf("Fprint() not styled: %q", buf.String())
	}
}
