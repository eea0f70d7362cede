package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/lode/export"
	"github.com/c360studio/lode/render"
)

const (
	// IndexName is the page file name in directory mode, without extension.
	IndexName = "index"
	// SerializationName is the graph file name in directory mode, without
	// extension.
	SerializationName = "ontology"
)

var pageExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
}

// IsStdout reports whether dest means standard output.
func IsStdout(dest string) bool {
	return dest == "" || dest == "-"
}

// IsDirTarget reports whether dest names an output directory rather than a
// page file.
func IsDirTarget(dest string) bool {
	if IsStdout(dest) {
		return false
	}
	if info, err := os.Stat(dest); err == nil {
		return info.IsDir()
	}
	return !pageExtensions[strings.ToLower(filepath.Ext(dest))]
}

// Write writes out to dest and returns the paths written. The page goes to
// stdout when dest is empty or "-", to dest/index.<ext> when dest is a
// directory and to dest itself otherwise. Serializations are written only in
// directory mode, as dest/ontology.<ext>.
func (g *Generator) Write(ctx context.Context, out *Output, dest string, serializations []export.Format, stdout io.Writer) ([]string, error) {
	if IsStdout(dest) {
		if len(serializations) > 0 {
			g.logger.Warn("Serializations are only written in directory mode", slog.Int("requested", len(serializations)))
		}
		if _, err := stdout.Write(out.Content); err != nil {
			return nil, fmt.Errorf("write stdout: %w", err)
		}
		return nil, nil
	}

	if !IsDirTarget(dest) {
		if len(serializations) > 0 {
			g.logger.Warn("Serializations are only written in directory mode", slog.String("output", dest))
		}
		if err := writeFile(dest, out.Content); err != nil {
			return nil, err
		}
		g.logger.Info("Wrote documentation", slog.String("path", dest))
		return []string{dest}, nil
	}

	page := filepath.Join(dest, IndexName+render.Extension(out.Format))
	if err := writeFile(page, out.Content); err != nil {
		return nil, err
	}
	written := []string{page}
	g.logger.Info("Wrote documentation", slog.String("path", page))

	for _, format := range serializations {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		info, ok := export.GetFormatInfo(format)
		if !ok {
			return written, fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, format)
		}
		data, err := out.Serialize(format)
		if err != nil {
			return written, fmt.Errorf("serialize %s: %w", format, err)
		}
		path := filepath.Join(dest, SerializationName+info.Extension)
		if err := writeFile(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
		g.logger.Info("Wrote serialization", slog.String("format", string(format)), slog.String("path", path))
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ParseSerializations resolves serialization names, dropping duplicates.
func ParseSerializations(names []string) ([]export.Format, error) {
	var out []export.Format
	seen := make(map[export.Format]bool)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
