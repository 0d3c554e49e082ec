package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuildSearchQuery(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"laptop", "hp"}, "laptop hp"},
		{[]string{"televisor barato"}, "televisor barato"},
		{[]string{" ", ""}, ""},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := buildSearchQuery(tc.args); got != tc.want {
			t.Errorf("buildSearchQuery(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestSearchArgsReorder(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"laptop", "hp", "--top-k", "5"}, []string{"--top-k", "5", "laptop", "hp"}},
		{[]string{"--top-k", "5", "laptop"}, []string{"--top-k", "5", "laptop"}},
		{[]string{"laptop", "hp"}, []string{"laptop", "hp"}},
		{nil, nil},
	}
	for _, tc := range cases {
		if got := searchArgsReorder(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("searchArgsReorder(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseOutputFormat(t *testing.T) {
	if _, err := parseOutputFormat("text"); err != nil {
		t.Error(err)
	}
	if _, err := parseOutputFormat("json"); err != nil {
		t.Error(err)
	}
	if _, err := parseOutputFormat("yaml"); err == nil {
		t.Error("yaml must be rejected")
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved = %q", resolved)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	// Defaults fill the rest.
	if cfg.Search.DefaultTopK != 10 {
		t.Errorf("default top-k = %d", cfg.Search.DefaultTopK)
	}
}
