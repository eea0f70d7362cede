package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/lode/export"
	"github.com/c360studio/lode/source/weburl"
)

const pizzaTurtle = `@prefix : <http://example.org/pizza#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix dcterms: <http://purl.org/dc/terms/> .

<http://example.org/pizza> a owl:Ontology ;
    dcterms:title "Pizza Ontology"@en , "Ontologie des pizzas"@fr .

:Pizza a owl:Class ;
    rdfs:label "Pizza"@en .
`

// execute runs the lode command with args and an isolated home directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeOntology(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(pizzaTurtle), 0644))
	return path
}

func TestSourceValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"no source", nil, ErrNoSource, "must provide either --url or --file"},
		{"both sources", []string{"--url", "https://example.org/o.ttl", "--file", "o.ttl"}, ErrConflictingSources, "cannot specify both --url and --file"},
		{"invalid url", []string{"--url", "ftp://example.org/o.ttl"}, weburl.ErrInvalidURL, "invalid URL"},
		{"watch without file", []string{"--url", "https://example.org/o.ttl", "--watch"}, ErrWatchNeedsFile, "--watch requires --file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGenerateMarkdownToStdout(t *testing.T) {
	file := writeOntology(t, t.TempDir(), "pizza.ttl")

	stdout, stderr, err := execute(t, "--file", file, "--format", "markdown", "--lang", "fr")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Ontologie des pizzas")
	assert.Contains(t, stdout, "## Classes")
	assert.Contains(t, stderr, "Generated documentation")
}

func TestGenerateHTMLWithStylesheetLink(t *testing.T) {
	file := writeOntology(t, t.TempDir(), "pizza.ttl")

	stdout, _, err := execute(t, "--file", file, "--css-location", "--theme", "modern")
	require.NoError(t, err)
	assert.Contains(t, stdout, "<!DOCTYPE html>")
	assert.Contains(t, stdout, `href="https://lode.sourceforge.net/css/`)
}

func TestGenerateToDirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeOntology(t, dir, "pizza.ttl")
	out := filepath.Join(dir, "site")

	stdout, _, err := execute(t, "--file", file, "-o", out, "--serialize", "turtle,jsonld")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "ontology.ttl"))
	assert.FileExists(t, filepath.Join(out, "ontology.jsonld"))
	assert.NoFileExists(t, filepath.Join(out, "ontology.nt"))
}

func TestGenerateToFile(t *testing.T) {
	dir := t.TempDir()
	file := writeOntology(t, dir, "pizza.ttl")
	out := filepath.Join(dir, "pizza.md")

	_, _, err := execute(t, "--file", file, "--format", "md", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Pizza Ontology")
}

func TestInvalidFlags(t *testing.T) {
	file := writeOntology(t, t.TempDir(), "pizza.ttl")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"language", []string{"--lang", "es"}, "render.lang"},
		{"theme", []string{"--theme", "dark"}, "render.theme"},
		{"format", []string{"--format", "pdf"}, "render.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"--file", file}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, err := execute(t, "--file", file, "--serialize", "csv")
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := writeOntology(t, dir, "pizza.ttl")
	cfgPath := filepath.Join(dir, "lode.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  format: markdown\n  lang: fr\n"), 0644))

	stdout, _, err := execute(t, "-c", cfgPath, "--file", file)
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Ontologie des pizzas")

	stdout, _, err = execute(t, "-c", cfgPath, "--file", file, "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Pizza Ontology")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeOntology(t, dir, "one.ttl")
	writeOntology(t, dir, "two.ttl")
	out := filepath.Join(dir, "docs")

	stdout, _, err := execute(t, "batch", filepath.Join(dir, "*.ttl"), "--out-dir", out, "--workers", "2", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok   "+filepath.Join(dir, "one.ttl"))
	assert.FileExists(t, filepath.Join(out, "one.md"))
	assert.FileExists(t, filepath.Join(out, "two.md"))

	_, _, err = execute(t, "batch", filepath.Join(dir, "*.owl"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lode version "+Version+" (build: "+BuildTime+")\n", stdout)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, tt.level)
			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.want))
			assert.False(t, logger.Enabled(ctx, tt.want-1))
		})
	}
}
