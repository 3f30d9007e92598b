package main

import (
	"flag"
	"io"
	"testing"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "desktop"}, "default:desktop"},
		{config.Source{Kind: config.SourceFile, File: "/etc/deskshell.yaml", Line: 3, Column: 5}, "file:/etc/deskshell.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/etc/deskshell.yaml"}, "file:/etc/deskshell.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceEnv, Name: "DESKSHELL_TASKBAR_HEIGHT"}, "env:$DESKSHELL_TASKBAR_HEIGHT"},
		{config.Source{Kind: "other"}, "other"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Point
		wantErr bool
	}{
		{"10,20", geometry.Point{X: 10, Y: 20}, false},
		{" 5 , -3 ", geometry.Point{X: 5, Y: -3}, false},
		{"10", geometry.Point{}, true},
		{"a,2", geometry.Point{}, true},
		{"1,b", geometry.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePoint(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseArgsCountsPositionals(t *testing.T) {
	newFS := func() *flag.FlagSet {
		fs := flag.NewFlagSet("move", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.Usage = func() {}
		return fs
	}

	if code, ok := parseArgs(newFS(), []string{"w-1", "10", "20"}, 3); !ok || code != 0 {
		t.Fatalf("parseArgs = (%d, %v), want (0, true)", code, ok)
	}
	if code, ok := parseArgs(newFS(), []string{"w-1"}, 3); ok || code != 2 {
		t.Fatalf("parseArgs short = (%d, %v), want (2, false)", code, ok)
	}
	if code, ok := parseArgs(newFS(), []string{"--help"}, 0); ok || code != 0 {
		t.Fatalf("parseArgs help = (%d, %v), want (0, false)", code, ok)
	}
	if code, ok := parseArgs(newFS(), []string{"--bogus"}, 0); ok || code != 2 {
		t.Fatalf("parseArgs bad flag = (%d, %v), want (2, false)", code, ok)
	}
	if _, ok := parseArgs(newFS(), []string{"a", "b", "c", "d"}, -1); !ok {
		t.Fatal("parseArgs with want=-1 should accept any count")
	}
}

func TestStderrOnly(t *testing.T) {
	got := stderrOnly([]string{"stdout", "/tmp/deskshell.log"})
	if len(got) != 1 || got[0] != "/tmp/deskshell.log" {
		t.Fatalf("stderrOnly = %v", got)
	}
	got = stderrOnly(nil)
	if len(got) != 1 || got[0] != "stderr" {
		t.Fatalf("stderrOnly(nil) = %v", got)
	}
}

func TestParseInts(t *testing.T) {
	got, err := parseInts("800", "-600")
	if err != nil || got[0] != 800 || got[1] != -600 {
		t.Fatalf("parseInts = %v, %v", got, err)
	}
	if _, err := parseInts("12px"); err == nil {
		t.Fatal("expected error for 12px")
	}
}
