package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/c360studio/lode/rdf"
)

// File errors.
var (
	ErrFileNotFound = errors.New("file does not exist")
	ErrNotAFile     = errors.New("path is not a file")
)

// FetchFile reads an ontology from a local file. The format comes from the
// file extension, falling back to content detection.
func FetchFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", path, err)
	}

	content, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", path, err)
	}

	format := rdf.FormatFromExtension(path)
	if format == "" {
		format = rdf.DetectFormat(content)
	}

	return &Document{
		Source:  path,
		Content: content,
		Format:  format,
	}, nil
}

// decodeText returns data as a string, decoding it as Latin-1 when it is
// not valid UTF-8.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(decoded), nil
}
