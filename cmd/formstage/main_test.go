package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formstage/pkg/testsupport"
	"github.com/goliatone/go-formstage/pkg/validation"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	cases := []struct {
		args    []string
		want    string
		wantErr string
	}{
		{args: []string{"validate", "phone", "555.123.4567"}, want: "ok (555)-123-4567\n"},
		{args: []string{"validate", "phone", "555"}, wantErr: validation.MessagePhone},
		{args: []string{"validate", "email", "jane@example.com"}, want: "ok jane@example.com\n"},
		{args: []string{"validate", "name", "D0e"}, wantErr: validation.MessageName},
		{args: []string{"validate", "passport", "x"}, wantErr: "unknown kind"},
	}
	for _, tc := range cases {
		out, err := run(t, tc.args...)
		if tc.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("%v: expected error containing %q, got %v", tc.args, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if out != tc.want {
			t.Fatalf("%v: output %q, want %q", tc.args, out, tc.want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("FORMSTAGE_START_STAGE", "")

	out, err := run(t, "render", "--stage", "2", "--fragment")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "<form") {
		t.Fatalf("expected a form fragment, got %.40q", out)
	}
	doc := testsupport.ParseHTML(t, out)
	if style := doc.Find("#stage2").AttrOr("style", ""); !strings.Contains(style, "block") {
		t.Fatalf("stage 2 should be visible, style=%q", style)
	}

	path := filepath.Join(t.TempDir(), "page.html")
	if _, err := run(t, "render", "--form", "../../pkg/schema/testdata/visa.yaml", "-o", path); err != nil {
		t.Fatalf("render to file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `id="visa"`) {
		t.Fatalf("expected the visa form in the output")
	}
}
