package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/c360studio/lode/model"
)

//go:embed translations/*.json
var translationFS embed.FS

//go:embed themes/*.css
var themeFS embed.FS

//go:embed templates/*.tmpl
var templateFS embed.FS

// Theme names.
const (
	ThemeClassic = "classic"
	ThemeModern  = "modern"
)

// DefaultCSSLocation is where the classic LODE stylesheets are published.
const DefaultCSSLocation = "https://lode.sourceforge.net/css/"

var themeFiles = map[string][]string{
	ThemeClassic: {"owl.css", "Primer.css", "rec.css", "extra.css"},
	ThemeModern:  {"modern.css"},
}

// Translator looks up interface strings for one language.
type Translator map[string]string

// T returns the translation of key, or key itself when it is missing.
func (t Translator) T(key string) string {
	if v, ok := t[key]; ok {
		return v
	}
	return key
}

var (
	catalogOnce sync.Once
	catalog     map[string]Translator
)

// loadCatalog panics on a malformed embedded file: the binary is broken.
func loadCatalog() {
	catalog = make(map[string]Translator)
	entries, err := translationFS.ReadDir("translations")
	if err != nil {
		panic(fmt.Sprintf("read embedded translations: %v", err))
	}
	for _, entry := range entries {
		data, err := translationFS.ReadFile(path.Join("translations", entry.Name()))
		if err != nil {
			panic(fmt.Sprintf("read %s: %v", entry.Name(), err))
		}
		var t Translator
		if err := json.Unmarshal(data, &t); err != nil {
			panic(fmt.Sprintf("parse %s: %v", entry.Name(), err))
		}
		catalog[strings.TrimSuffix(entry.Name(), ".json")] = t
	}
}

// Translations returns the translator for lang, falling back to English.
func Translations(lang string) Translator {
	catalogOnce.Do(loadCatalog)
	if t, ok := catalog[lang]; ok {
		return t
	}
	return catalog[model.DefaultLang]
}

// Languages returns the languages with a translation catalogue.
func Languages() []string {
	catalogOnce.Do(loadCatalog)
	out := make([]string, 0, len(catalog))
	for lang := range catalog {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// ThemeCSS returns the concatenated stylesheets of theme, each preceded by
// a comment naming its file. Unknown themes get the classic stylesheets.
func ThemeCSS(theme string) string {
	files, ok := themeFiles[theme]
	if !ok {
		files = themeFiles[ThemeClassic]
	}
	var sb strings.Builder
	for _, name := range files {
		data, err := themeFS.ReadFile(path.Join("themes", name))
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "/* %s */\n%s\n\n", name, data)
	}
	return sb.String()
}

// stylesheetLinks returns the hrefs to link for theme under location.
func stylesheetLinks(location, theme string) []string {
	if location == "" {
		return nil
	}
	if strings.HasSuffix(strings.ToLower(location), ".css") {
		return []string{location}
	}
	files, ok := themeFiles[theme]
	if !ok {
		files = themeFiles[ThemeClassic]
	}
	base := strings.TrimSuffix(location, "/") + "/"
	out := make([]string, len(files))
	for i, name := range files {
		out[i] = base + name
	}
	return out
}
