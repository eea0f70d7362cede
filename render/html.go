package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/source/weburl"
)

type htmlPage struct {
	Lang        string
	Title       string
	Tr          Translator
	CSS         template.CSS
	Stylesheets []string
	OntologyIRI string
	Metadata    []htmlRow
	OtherTitles []string
	Abstract    template.HTML
	Sections    []htmlSection
	Namespaces  []model.Namespace
	Generator   string
	LodeURL     string
}

type htmlSection struct {
	ID       string
	Title    string
	Entities []htmlEntity
}

type htmlEntity struct {
	Anchor      string
	Abbrev      string
	Label       string
	IRI         string
	Deprecated  bool
	OtherLabels []string
	Comment     template.HTML
	Rows        []htmlRow
}

type htmlRow struct {
	Label  string
	Values []template.HTML
}

// HTML writes doc as a complete HTML page.
func (r *Renderer) HTML(w io.Writer, doc *model.Document, opts Options) error {
	opts = opts.withDefaults()
	tr := Translations(opts.Lang)
	names := newNamer(doc, opts.Lang)
	hw := &htmlWriter{names: names}
	hw.expr = htmlFormatter(func(iri string) string { return string(hw.ref(iri)) })

	p := htmlPage{
		Lang:        opts.Lang,
		Title:       doc.Title(opts.Lang),
		Tr:          tr,
		CSS:         template.CSS(ThemeCSS(opts.Theme)),
		Stylesheets: stylesheetLinks(opts.CSSLocation, opts.Theme),
		OntologyIRI: doc.Metadata.IRI,
		Metadata:    hw.metadata(doc.Metadata, tr),
		OtherTitles: doc.Metadata.Titles.Others(opts.Lang),
		Abstract:    SanitizeHTML(doc.Metadata.Description(opts.Lang)),
		Namespaces:  doc.Namespaces,
		Generator:   opts.Generator,
		LodeURL:     LodeURL,
	}
	for _, s := range sections(doc, tr, names) {
		hs := htmlSection{ID: s.ID, Title: tr.T(s.Key)}
		for _, se := range s.Entities {
			hs.Entities = append(hs.Entities, hw.entity(se, s.Abbrev, opts.Lang))
		}
		p.Sections = append(p.Sections, hs)
	}

	if err := r.page.Execute(w, p); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

type htmlWriter struct {
	names *namer
	expr  *exprFormatter
}

// ref links an IRI: documented entities to their anchor, web IRIs to
// themselves.
func (hw *htmlWriter) ref(iri string) template.HTML {
	label := template.HTMLEscapeString(hw.names.label(iri))
	title := template.HTMLEscapeString(iri)
	switch {
	case hw.names.defines(iri):
		return template.HTML(`<a href="#` + URIToAnchor(iri) + `" title="` + title + `">` + label + `</a>`)
	case weburl.IsHTTP(iri):
		return template.HTML(`<a href="` + title + `">` + label + `</a>`)
	default:
		return template.HTML(`<span title="` + title + `">` + label + `</span>`)
	}
}

func (hw *htmlWriter) value(v value) template.HTML {
	var out string
	if v.Prop != "" {
		out = "<strong>" + string(hw.ref(v.Prop)) + "</strong> "
	}
	switch {
	case v.Expr != nil:
		out += hw.expr.format(*v.Expr)
	case v.IRI != "":
		out += string(hw.ref(v.IRI))
	case len(v.Chain) > 0:
		parts := make([]string, len(v.Chain))
		for i, iri := range v.Chain {
			parts[i] = string(hw.ref(iri))
		}
		out += strings.Join(parts, " <em>o</em> ")
	default:
		out += string(SanitizeHTML(v.Text))
		if v.Lang != "" {
			out += ` <span class="lang">@` + template.HTMLEscapeString(v.Lang) + `</span>`
		}
	}
	return template.HTML(out)
}

func (hw *htmlWriter) rows(rels []relation) []htmlRow {
	out := make([]htmlRow, len(rels))
	for i, rel := range rels {
		row := htmlRow{Label: rel.Label}
		for _, v := range rel.Values {
			row.Values = append(row.Values, hw.value(v))
		}
		out[i] = row
	}
	return out
}

func (hw *htmlWriter) entity(se sectionEntity, abbrev, lang string) htmlEntity {
	e := se.Entity
	return htmlEntity{
		Anchor:      URIToAnchor(e.IRI),
		Abbrev:      abbrev,
		Label:       e.DisplayLabel(lang),
		IRI:         e.IRI,
		Deprecated:  e.Deprecated,
		OtherLabels: e.Labels.Others(lang),
		Comment:     SanitizeHTML(EntityComment(e, lang)),
		Rows:        hw.rows(se.Relations),
	}
}

func (hw *htmlWriter) link(iri string) template.HTML {
	esc := template.HTMLEscapeString(iri)
	if weburl.IsHTTP(iri) {
		return template.HTML(`<a href="` + esc + `">` + esc + `</a>`)
	}
	return template.HTML(esc)
}

func (hw *htmlWriter) metadata(m model.Metadata, tr Translator) []htmlRow {
	var out []htmlRow
	add := func(key string, vals ...template.HTML) {
		if len(vals) > 0 {
			out = append(out, htmlRow{Label: tr.T(key), Values: vals})
		}
	}
	links := func(iris []string) []template.HTML {
		var vals []template.HTML
		for _, iri := range iris {
			vals = append(vals, hw.link(iri))
		}
		return vals
	}
	texts := func(ss []string) []template.HTML {
		var vals []template.HTML
		for _, s := range ss {
			if weburl.IsHTTP(s) {
				vals = append(vals, hw.link(s))
				continue
			}
			vals = append(vals, template.HTML(template.HTMLEscapeString(s)))
		}
		return vals
	}
	nonEmpty := func(s string) []string {
		if s == "" {
			return nil
		}
		return []string{s}
	}

	add("iri", links(nonEmpty(m.IRI))...)
	add("version_iri", links(nonEmpty(m.VersionIRI))...)
	add("version", texts(nonEmpty(m.Version))...)
	add("date", texts(nonEmpty(m.Date))...)
	add("authors", texts(m.Creators)...)
	add("contributors", texts(m.Contributors)...)
	add("publishers", texts(m.Publishers)...)
	add("imported_ontologies", links(m.Imports)...)
	add("prior_version", links(m.PriorVersions)...)
	add("license", texts(nonEmpty(m.License))...)
	return out
}
