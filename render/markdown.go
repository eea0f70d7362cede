package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/source/weburl"
)

// Markdown writes doc as a Markdown document.
func (r *Renderer) Markdown(w io.Writer, doc *model.Document, opts Options) error {
	opts = opts.withDefaults()
	tr := Translations(opts.Lang)
	names := newNamer(doc, opts.Lang)
	mw := &markdownWriter{r: r, names: names}
	mw.expr = markdownFormatter(mw.ref)

	var sb strings.Builder

	// Title as H1
	sb.WriteString("# ")
	sb.WriteString(doc.Title(opts.Lang))
	sb.WriteString("\n\n")

	mw.writeMetadata(&sb, doc.Metadata, tr)

	if desc := doc.Metadata.Description(opts.Lang); desc != "" {
		sb.WriteString("## " + tr.T("abstract") + "\n\n")
		sb.WriteString(r.commentMarkdown(desc))
		sb.WriteString("\n\n")
	}

	secs := sections(doc, tr, names)
	sb.WriteString("## " + tr.T("toc") + "\n\n")
	for _, s := range secs {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", tr.T(s.Key), s.ID)
	}
	sb.WriteString("\n")

	for _, s := range secs {
		sb.WriteString("## " + tr.T(s.Key) + "\n\n")
		for _, se := range s.Entities {
			mw.writeEntity(&sb, se, opts.Lang, tr)
		}
	}

	if len(doc.Namespaces) > 0 {
		sb.WriteString("## " + tr.T("namespaces") + "\n\n")
		sb.WriteString("| " + tr.T("prefix") + " | " + tr.T("namespace") + " |\n")
		sb.WriteString("|---|---|\n")
		for _, ns := range doc.Namespaces {
			prefix := ns.Prefix
			if prefix == "" {
				prefix = ":"
			}
			fmt.Fprintf(&sb, "| %s | `%s` |\n", prefix, ns.IRI)
		}
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

type markdownWriter struct {
	r     *Renderer
	names *namer
	expr  *exprFormatter
}

// ref names an IRI; web IRIs that are not documented here become links.
func (mw *markdownWriter) ref(iri string) string {
	label := mw.names.label(iri)
	if !mw.names.defines(iri) && weburl.IsHTTP(iri) {
		return "[" + label + "](" + iri + ")"
	}
	return label
}

func (mw *markdownWriter) value(v value) string {
	var out string
	if v.Prop != "" {
		out = "**" + mw.ref(v.Prop) + "** "
	}
	switch {
	case v.Expr != nil:
		out += mw.expr.format(*v.Expr)
	case v.IRI != "":
		out += mw.ref(v.IRI)
	case len(v.Chain) > 0:
		parts := make([]string, len(v.Chain))
		for i, iri := range v.Chain {
			parts[i] = mw.ref(iri)
		}
		out += strings.Join(parts, " *o* ")
	default:
		out += mw.r.commentMarkdown(v.Text)
		if v.Lang != "" {
			out += " @" + v.Lang
		}
	}
	return out
}

func (mw *markdownWriter) writeEntity(sb *strings.Builder, se sectionEntity, lang string, tr Translator) {
	e := se.Entity
	sb.WriteString("### " + e.DisplayLabel(lang))
	if e.Deprecated {
		sb.WriteString(" *(" + tr.T("deprecated") + ")*")
	}
	sb.WriteString("\n")
	sb.WriteString("**" + tr.T("iri") + ":** `" + e.IRI + "`\n\n")

	if others := e.Labels.Others(lang); len(others) > 0 {
		sb.WriteString("*" + tr.T("other_labels") + ": " + strings.Join(others, ", ") + "*\n\n")
	}
	if comment := EntityComment(e, lang); comment != "" {
		sb.WriteString(mw.r.commentMarkdown(comment))
		sb.WriteString("\n\n")
	}

	if len(se.Relations) == 0 {
		return
	}
	for _, rel := range se.Relations {
		vals := make([]string, len(rel.Values))
		for i, v := range rel.Values {
			vals[i] = mw.value(v)
		}
		sb.WriteString("- **" + rel.Label + ":** " + strings.Join(vals, ", ") + "\n")
	}
	sb.WriteString("\n")
}

func (mw *markdownWriter) writeMetadata(sb *strings.Builder, m model.Metadata, tr Translator) {
	var lines []string
	add := func(key string, vals ...string) {
		var kept []string
		for _, v := range vals {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			lines = append(lines, "- **"+tr.T(key)+":** "+strings.Join(kept, ", "))
		}
	}
	add("iri", m.IRI)
	add("version_iri", m.VersionIRI)
	add("version", m.Version)
	add("date", m.Date)
	add("authors", m.Creators...)
	add("contributors", m.Contributors...)
	add("publishers", m.Publishers...)
	add("imported_ontologies", m.Imports...)
	add("prior_version", m.PriorVersions...)
	add("license", m.License)
	if len(lines) == 0 {
		return
	}
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")
}
