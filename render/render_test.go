package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/ontology"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/source"
)

const basicOntology = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix dc: <http://purl.org/dc/elements/1.1/> .
@prefix ex: <http://example.org/> .

ex:ontology rdf:type owl:Ontology ;
    dc:title "Test Ontology" ;
    dc:description "A test ontology" .

ex:Person rdf:type owl:Class ;
    rdfs:label "Person"@en ;
    rdfs:comment "A human being"@en .
`

const collisionOntology = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix dc: <http://purl.org/dc/elements/1.1/> .
@prefix one: <http://example.org/one#> .
@prefix two: <http://example.org/two#> .

<http://example.org/one> rdf:type owl:Ontology ;
    dc:title "Collision Test" .

one:Agent rdf:type owl:Class .

one:Person rdf:type owl:Class ;
    rdfs:label "Person"@en ;
    rdfs:comment "Someone with <script>alert(1)</script><b>rights</b>."@en ;
    rdfs:subClassOf one:Agent ;
    rdfs:subClassOf _:minName .

_:minName rdf:type owl:Restriction ;
    owl:onProperty one:name ;
    owl:minCardinality "1"^^xsd:nonNegativeInteger .

two:Person rdf:type owl:Class ;
    rdfs:label "Person"@en .

one:name rdf:type owl:DatatypeProperty ;
    rdf:type owl:FunctionalProperty ;
    rdfs:domain one:Agent .
`

func extract(t *testing.T, content string) *model.Document {
	t.Helper()
	doc := &source.Document{Source: "http://example.org/ontology", Content: content, Format: rdf.FormatTurtle}
	g, err := ontology.ParseDocument(doc)
	require.NoError(t, err)
	return ontology.Extract(g, ontology.FindOntologyIRI(g, doc.Source), doc.Source)
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(nil)
	require.NoError(t, err)
	return r
}

func renderString(t *testing.T, doc *model.Document, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Render(&buf, doc, opts))
	return buf.String()
}

func TestURIToAnchor(t *testing.T) {
	tests := []struct {
		uri, want string
	}{
		{"http://example.org/ontology#Person", "example_org_ontology_Person"},
		{"https://w3id.org/a-b/c_d", "w3id_org_a-b_c_d"},
		{"urn:x:y", "urn_x_y"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, URIToAnchor(tt.uri))
		})
	}
}

func TestURIToLabel(t *testing.T) {
	assert.Equal(t, "Person", URIToLabel("http://example.org/ontology#Person"))
	assert.Equal(t, "Person", URIToLabel("http://example.org/ontology/Person"))
	assert.Equal(t, "Person", URIToLabel("Person"))
}

func TestNamerQName(t *testing.T) {
	doc := &model.Document{Namespaces: []model.Namespace{
		{Prefix: "foaf", IRI: "http://xmlns.com/foaf/0.1/"},
		{Prefix: "ns1", IRI: "http://example.org/generated#"},
		{Prefix: "ex", IRI: "http://example.org/"},
		{Prefix: "ns12", IRI: "http://example.org/deep/"},
	}}
	n := newNamer(doc, "en")

	tests := []struct {
		iri  string
		want string
	}{
		{"http://xmlns.com/foaf/0.1/name", "foaf:name"},
		{"http://example.org/generated#Thing", "Thing"},
		{"http://example.org/deep/Part", "Part"},
		{"http://example.org/Car", "ex:Car"},
		{"http://other.org/onto#Wheel", "Wheel"},
	}
	for _, tt := range tests {
		t.Run(tt.iri, func(t *testing.T) {
			assert.Equal(t, tt.want, n.qname(tt.iri))
		})
	}
}

func TestEntityLabel(t *testing.T) {
	e := model.NewEntity("http://example.org/Person")
	e.Labels.Add("en", "Person")
	e.Labels.Add("fr", "Personne")
	e.Labels.Add("it", "Persona")

	assert.Equal(t, "Personne", EntityLabel(&e, "fr"))
	assert.Equal(t, "Person", EntityLabel(&e, "en"))
	assert.Equal(t, "Person", EntityLabel(&e, "de"), "falls back to English")

	bare := model.NewEntity("http://example.org/Person")
	assert.Equal(t, "Person", EntityLabel(&bare, "en"), "falls back to the IRI")
}

func TestEntityComment(t *testing.T) {
	e := model.NewEntity("http://example.org/Person")
	e.Comments.Add("en", "A human being")
	e.Comments.Add("fr", "Un être humain")

	assert.Equal(t, "A human being", EntityComment(&e, "en"))
	assert.Equal(t, "Un être humain", EntityComment(&e, "fr"))
	assert.Equal(t, "A human being", EntityComment(&e, "de"))

	bare := model.NewEntity("http://example.org/Person")
	assert.Empty(t, EntityComment(&bare, "en"))
}

func TestBestTitle(t *testing.T) {
	fallback := "http://example.org/ontology"
	assert.Equal(t, "My Ontology", BestTitle([]string{"My Ontology"}, []string{"Another Label"}, fallback))
	assert.Equal(t, "Another Label", BestTitle(nil, []string{"Another Label"}, fallback))
	assert.Equal(t, "ontology", BestTitle(nil, nil, fallback))
}

func TestTranslations(t *testing.T) {
	assert.Equal(t, []string{"de", "en", "fr", "it"}, Languages())

	en := Translations("en")
	assert.Equal(t, "Classes", en.T("classes"))
	assert.Equal(t, "no_such_key", en.T("no_such_key"))
	assert.Equal(t, en, Translations("pt"), "unknown languages fall back to English")
	assert.Equal(t, "Klassen", Translations("de").T("classes"))

	for _, lang := range Languages() {
		tr := Translations(lang)
		for key := range en {
			assert.Contains(t, tr, key, "%s is missing %q", lang, key)
		}
	}
}

func TestThemeCSS(t *testing.T) {
	classic := ThemeCSS(ThemeClassic)
	var last int
	for _, name := range []string{"owl.css", "Primer.css", "rec.css", "extra.css"} {
		idx := strings.Index(classic, "/* "+name+" */")
		require.GreaterOrEqual(t, idx, last, name)
		last = idx
	}

	modern := ThemeCSS(ThemeModern)
	assert.Contains(t, modern, "/* modern.css */")
	assert.NotContains(t, modern, "owl.css")

	assert.Equal(t, classic, ThemeCSS("unknown"))
}

func TestStylesheetLinks(t *testing.T) {
	assert.Nil(t, stylesheetLinks("", ThemeClassic))
	assert.Equal(t, []string{
		"https://lode.sourceforge.net/css/owl.css",
		"https://lode.sourceforge.net/css/Primer.css",
		"https://lode.sourceforge.net/css/rec.css",
		"https://lode.sourceforge.net/css/extra.css",
	}, stylesheetLinks(DefaultCSSLocation, ThemeClassic))
	assert.Equal(t, []string{"/static/modern.css"}, stylesheetLinks("/static", ThemeModern))
	assert.Equal(t, []string{"site.CSS"}, stylesheetLinks("site.CSS", ThemeModern))
}

func TestRenderHTMLBasic(t *testing.T) {
	out := renderString(t, extract(t, basicOntology), Options{Lang: "en"})

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Test Ontology</title>")
	assert.Contains(t, out, "A test ontology")
	assert.Contains(t, out, "Person")
	assert.Contains(t, out, "A human being")
	assert.Contains(t, out, "Classes")
	assert.Contains(t, out, `id="example_org_Person"`)
	assert.Contains(t, out, "/* owl.css */")
	assert.NotContains(t, out, "<link rel=\"stylesheet\"", "no external stylesheet unless asked for")
}

func TestRenderMarkdownBasic(t *testing.T) {
	out := renderString(t, extract(t, basicOntology), Options{Format: FormatMarkdown, Lang: "en"})

	assert.Contains(t, out, "# Test Ontology\n")
	assert.Contains(t, out, "## Abstract\n\nA test ontology\n")
	assert.Contains(t, out, "- [Classes](#classes)\n")
	assert.NotContains(t, out, "(#object-properties)", "empty sections are left out of the contents")
	assert.Contains(t, out, "## Classes")
	assert.Contains(t, out, "### Person\n**IRI:** `http://example.org/Person`\n\nA human being\n")
}

func TestRenderLocalised(t *testing.T) {
	doc := extract(t, basicOntology)

	md := renderString(t, doc, Options{Format: FormatMarkdown, Lang: "de"})
	assert.Contains(t, md, "## Inhaltsverzeichnis")
	assert.Contains(t, md, "## Klassen")
	assert.Contains(t, md, "### Person", "English label is the fallback")

	page := renderString(t, doc, Options{Lang: "it"})
	assert.Contains(t, page, `<html lang="it">`)
	assert.Contains(t, page, "Classi")
}

func TestRenderHTMLThemeAndStylesheet(t *testing.T) {
	out := renderString(t, extract(t, basicOntology), Options{Theme: ThemeModern, CSSLocation: DefaultCSSLocation})

	assert.Contains(t, out, "/* modern.css */")
	assert.NotContains(t, out, "/* owl.css */")
	assert.Contains(t, out, `<link rel="stylesheet" href="https://lode.sourceforge.net/css/modern.css">`)
}

func TestRenderRelationsAndUniqueLabels(t *testing.T) {
	doc := extract(t, collisionOntology)

	page := renderString(t, doc, Options{})
	assert.Contains(t, page, "one:Person")
	assert.Contains(t, page, "two:Person")
	assert.Contains(t, page, `href="#example_org_one_Agent"`)
	assert.Contains(t, page, "<em>min</em> 1")
	assert.Contains(t, page, "functional")
	assert.Contains(t, page, "<b>rights</b>")
	assert.NotContains(t, page, "<script>", "comment markup is sanitized")

	md := renderString(t, doc, Options{Format: FormatMarkdown})
	assert.Contains(t, md, "### one:Person\n")
	assert.Contains(t, md, "- **has super-classes:** Agent, **name** *min* 1\n")
	assert.Contains(t, md, "**rights**")
	assert.Contains(t, md, "- **has characteristics:** functional\n")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := newRenderer(t).Render(&buf, extract(t, basicOntology), Options{Format: "pdf"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtensionAndContentType(t *testing.T) {
	assert.Equal(t, ".html", Extension(FormatHTML))
	assert.Equal(t, ".md", Extension(FormatMarkdown))
	assert.Equal(t, "text/html; charset=utf-8", ContentType(FormatHTML))
	assert.Equal(t, "text/markdown; charset=utf-8", ContentType(FormatMarkdown))
}
