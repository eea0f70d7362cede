package rdf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"

	"github.com/c360studio/lode/vocabulary"
)

const (
	xmlNamespace    = "http://www.w3.org/XML/1998/namespace"
	rdfXMLLiteral   = vocabulary.RDFNamespace + "XMLLiteral"
	rdfStatement    = vocabulary.RDFNamespace + "Statement"
	rdfSubject      = vocabulary.RDFNamespace + "subject"
	rdfPredicate    = vocabulary.RDFNamespace + "predicate"
	rdfObject       = vocabulary.RDFNamespace + "object"
	rdfListItemBase = vocabulary.RDFNamespace + "_"
)

var entityPattern = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.\-]*)\s+(?:"([^"]*)"|'([^']*)')`)

// syntaxAttrs are rdf: attributes that never become property attributes.
var syntaxAttrs = map[string]bool{
	"about":           true,
	"ID":              true,
	"nodeID":          true,
	"resource":        true,
	"parseType":       true,
	"datatype":        true,
	"bagID":           true,
	"aboutEach":       true,
	"aboutEachPrefix": true,
}

// xmlElement is one element of the parsed document.
type xmlElement struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*xmlElement
	text     string
	inner    []byte

	innerStart int64
}

// xmlScope carries the inherited xml:base and xml:lang of an element.
type xmlScope struct {
	base *url.URL
	lang string
}

func (s xmlScope) enter(e *xmlElement) xmlScope {
	for _, a := range e.attrs {
		if a.Name.Space != xmlNamespace {
			continue
		}
		switch a.Name.Local {
		case "lang":
			s.lang = a.Value
		case "base":
			if u, err := url.Parse(a.Value); err == nil {
				if s.base != nil {
					u = s.base.ResolveReference(u)
				}
				if u.IsAbs() {
					s.base = u
				}
			}
		}
	}
	return s
}

func (s xmlScope) resolve(ref string) string {
	if s.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if ref == "" {
		b := *s.base
		b.Fragment, b.RawFragment = "", ""
		return b.String()
	}
	return s.base.ResolveReference(u).String()
}

// parseXMLTree reads data into an element tree. Entities declared in the
// DOCTYPE internal subset are expanded.
func parseXMLTree(data []byte) (*xmlElement, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}

	var (
		stack []*xmlElement
		root  *xmlElement
	)
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityPattern.FindAllSubmatch(append([]byte("<!"), t...), -1) {
				dec.Entity[string(m[1])] = string(m[2]) + string(m[3])
			}
		case xml.StartElement:
			el := &xmlElement{
				name:       t.Name,
				attrs:      t.Copy().Attr,
				innerStart: dec.InputOffset(),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			el := stack[len(stack)-1]
			if off >= el.innerStart && off <= int64(len(data)) {
				el.inner = data[el.innerStart:off]
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// rdfxml parses an RDF/XML document: typed and nested node elements,
// rdf:parseType Resource, Collection and Literal, rdf:ID, rdf:li,
// property attributes, xml:base and xml:lang.
func (p *parser) rdfxml(data []byte) error {
	root, err := parseXMLTree(data)
	if err != nil {
		return err
	}
	p.bindXMLNamespaces(root)

	scope := xmlScope{base: p.base}
	if isRDFName(root.name, "RDF") {
		scope = scope.enter(root)
		for _, child := range root.children {
			if _, err := p.nodeElement(child, scope); err != nil {
				return err
			}
		}
		return nil
	}
	_, err = p.nodeElement(root, scope)
	return err
}

func (p *parser) bindXMLNamespaces(e *xmlElement) {
	for _, a := range e.attrs {
		switch {
		case a.Name.Space == "xmlns" && a.Value != "":
			p.graph.Bind(a.Name.Local, p.resolve(a.Value))
		case a.Name.Space == "" && a.Name.Local == "xmlns" && a.Value != "":
			p.graph.Bind("", p.resolve(a.Value))
		}
	}
	for _, child := range e.children {
		p.bindXMLNamespaces(child)
	}
}

func (p *parser) nodeElement(e *xmlElement, scope xmlScope) (Term, error) {
	if e.name.Space == "" {
		return Term{}, fmt.Errorf("node element %s has no namespace", e.name.Local)
	}
	scope = scope.enter(e)

	var subj Term
	switch {
	case hasRDFAttr(e, "about"):
		subj = IRI(scope.resolve(rdfAttr(e, "about")))
	case hasRDFAttr(e, "ID"):
		subj = IRI(scope.resolve("#" + rdfAttr(e, "ID")))
	case hasRDFAttr(e, "nodeID"):
		subj = p.nodeID(rdfAttr(e, "nodeID"))
	default:
		subj = p.newBlank()
	}

	if !isRDFName(e.name, "Description") {
		p.graph.Add(Triple{S: subj, P: IRI(vocabulary.RDFType), O: IRI(e.name.Space + e.name.Local)})
	}
	p.propertyAttrs(subj, e, scope)

	li := 0
	for _, child := range e.children {
		if err := p.propertyElement(subj, child, scope, &li); err != nil {
			return Term{}, err
		}
	}
	return subj, nil
}

// propertyAttrs adds one triple per property attribute of e.
func (p *parser) propertyAttrs(subj Term, e *xmlElement, scope xmlScope) {
	for _, a := range e.attrs {
		if !isPropertyAttr(a) {
			continue
		}
		if isRDFName(a.Name, "type") {
			p.graph.Add(Triple{S: subj, P: IRI(vocabulary.RDFType), O: IRI(scope.resolve(a.Value))})
			continue
		}
		p.graph.Add(Triple{S: subj, P: IRI(a.Name.Space + a.Name.Local), O: p.literal(a.Value, "", scope.lang)})
	}
}

func (p *parser) propertyElement(subj Term, e *xmlElement, scope xmlScope, li *int) error {
	if e.name.Space == "" {
		return fmt.Errorf("property element %s has no namespace", e.name.Local)
	}
	scope = scope.enter(e)

	pred := IRI(e.name.Space + e.name.Local)
	if isRDFName(e.name, "li") {
		*li++
		pred = IRI(rdfListItemBase + strconv.Itoa(*li))
	}

	var obj Term
	switch parseType := rdfAttr(e, "parseType"); {
	case parseType == "Resource":
		obj = p.newBlank()
		inner := 0
		for _, child := range e.children {
			if err := p.propertyElement(obj, child, scope, &inner); err != nil {
				return err
			}
		}
	case parseType == "Collection":
		items := make([]Term, 0, len(e.children))
		for _, child := range e.children {
			item, err := p.nodeElement(child, scope)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		obj = p.collection(items)
	case parseType != "":
		obj = TypedLiteral(string(e.inner), rdfXMLLiteral)
	case len(e.children) > 1:
		return fmt.Errorf("property element %s has %d node elements", e.name.Local, len(e.children))
	case len(e.children) == 1:
		var err error
		if obj, err = p.nodeElement(e.children[0], scope); err != nil {
			return err
		}
	case hasRDFAttr(e, "resource") || hasRDFAttr(e, "nodeID") || hasPropertyAttrs(e):
		switch {
		case hasRDFAttr(e, "resource"):
			obj = IRI(scope.resolve(rdfAttr(e, "resource")))
		case hasRDFAttr(e, "nodeID"):
			obj = p.nodeID(rdfAttr(e, "nodeID"))
		default:
			obj = p.newBlank()
		}
		p.propertyAttrs(obj, e, scope)
	default:
		datatype := ""
		if hasRDFAttr(e, "datatype") {
			datatype = scope.resolve(rdfAttr(e, "datatype"))
		}
		obj = p.literal(e.text, datatype, scope.lang)
	}

	p.graph.Add(Triple{S: subj, P: pred, O: obj})
	if hasRDFAttr(e, "ID") {
		p.reify(IRI(scope.resolve("#"+rdfAttr(e, "ID"))), Triple{S: subj, P: pred, O: obj})
	}
	return nil
}

func (p *parser) collection(items []Term) Term {
	head := IRI(vocabulary.RDFNil)
	for i := len(items) - 1; i >= 0; i-- {
		node := p.newBlank()
		p.graph.Add(Triple{S: node, P: IRI(vocabulary.RDFFirst), O: items[i]})
		p.graph.Add(Triple{S: node, P: IRI(vocabulary.RDFRest), O: head})
		head = node
	}
	return head
}

func (p *parser) reify(stmt Term, t Triple) {
	p.graph.Add(Triple{S: stmt, P: IRI(vocabulary.RDFType), O: IRI(rdfStatement)})
	p.graph.Add(Triple{S: stmt, P: IRI(rdfSubject), O: t.S})
	p.graph.Add(Triple{S: stmt, P: IRI(rdfPredicate), O: t.P})
	p.graph.Add(Triple{S: stmt, P: IRI(rdfObject), O: t.O})
}

func (p *parser) literal(value, datatype, lang string) Term {
	switch {
	case datatype != "" && datatype != vocabulary.XSDNamespace+"string":
		return TypedLiteral(value, datatype)
	case datatype == "" && lang != "":
		return LangLiteral(value, lang)
	default:
		return Literal(value)
	}
}

func (p *parser) newBlank() Term {
	p.blanks++
	return Blank(p.scope + "g" + strconv.Itoa(p.blanks))
}

func (p *parser) nodeID(id string) Term {
	return Blank(p.scope + "n" + id)
}

func isRDFName(n xml.Name, local string) bool {
	return n.Space == vocabulary.RDFNamespace && n.Local == local
}

// rdfAttr returns the value of rdf:local on e. Unqualified syntax
// attributes are accepted as well.
func rdfAttr(e *xmlElement, local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local && (a.Name.Space == vocabulary.RDFNamespace || a.Name.Space == "") {
			return a.Value
		}
	}
	return ""
}

func hasRDFAttr(e *xmlElement, local string) bool {
	for _, a := range e.attrs {
		if a.Name.Local == local && (a.Name.Space == vocabulary.RDFNamespace || a.Name.Space == "") {
			return true
		}
	}
	return false
}

func isPropertyAttr(a xml.Attr) bool {
	switch a.Name.Space {
	case "", "xmlns", xmlNamespace:
		return false
	case vocabulary.RDFNamespace:
		return !syntaxAttrs[a.Name.Local] && a.Name.Local != "li"
	}
	return true
}

func hasPropertyAttrs(e *xmlElement) bool {
	for _, a := range e.attrs {
		if isPropertyAttr(a) {
			return true
		}
	}
	return false
}
