package vocabulary

import "strings"

// StandardPrefixes returns the prefix bindings added to every graph.
func StandardPrefixes() map[string]string {
	return map[string]string{
		"rdf":     RDFNamespace,
		"rdfs":    RDFSNamespace,
		"owl":     OWLNamespace,
		"xsd":     XSDNamespace,
		"dc":      DCNamespace,
		"dcterms": DCTermsNamespace,
	}
}

// WellKnownPrefixes extends StandardPrefixes with vocabularies that often
// appear in ontology annotations. Used when serializing.
func WellKnownPrefixes() map[string]string {
	prefixes := StandardPrefixes()
	prefixes["skos"] = SKOSNamespace
	prefixes["prov"] = PROVNamespace
	return prefixes
}

// InNamespace reports whether iri belongs to any of the given namespaces.
func InNamespace(iri string, namespaces ...string) bool {
	for _, ns := range namespaces {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}

// IsBuiltinDatatype reports whether iri names an XSD datatype or rdf:langString.
func IsBuiltinDatatype(iri string) bool {
	return strings.HasPrefix(iri, XSDNamespace) || iri == RDFLangString
}
