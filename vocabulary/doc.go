// Package vocabulary provides IRI constants for the W3C and Dublin Core
// vocabularies an ontology document is read against.
//
// # Namespaces
//
// The package covers the vocabularies the extractor and the reasoner need:
//   - RDF and RDFS: typing, labels, comments, hierarchy, domain and range
//   - OWL: classes, properties, restrictions, imports, versioning
//   - XSD: literal datatypes
//   - DC elements and DC terms: ontology metadata (title, creator, license)
//   - SKOS and PROV: annotation predicates commonly found on entities
//
// # Prefix Bindings
//
// StandardPrefixes returns the bindings every parsed graph starts with so
// that compact names (owl:Class, rdfs:label) render consistently even when
// the source document does not declare them:
//
//	for prefix, ns := range vocabulary.StandardPrefixes() {
//	    g.Bind(prefix, ns)
//	}
package vocabulary
