package vocabulary

// Namespace IRIs.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace     = "http://www.w3.org/2002/07/owl#"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
	DCNamespace      = "http://purl.org/dc/elements/1.1/"
	DCTermsNamespace = "http://purl.org/dc/terms/"
	SKOSNamespace    = "http://www.w3.org/2004/02/skos/core#"
	PROVNamespace    = "http://www.w3.org/ns/prov#"
)

// RDF terms.
const (
	RDFType       = RDFNamespace + "type"
	RDFProperty   = RDFNamespace + "Property"
	RDFFirst      = RDFNamespace + "first"
	RDFRest       = RDFNamespace + "rest"
	RDFNil        = RDFNamespace + "nil"
	RDFLangString = RDFNamespace + "langString"
)

// RDFS terms.
const (
	RDFSClass         = RDFSNamespace + "Class"
	RDFSDatatype      = RDFSNamespace + "Datatype"
	RDFSLabel         = RDFSNamespace + "label"
	RDFSComment       = RDFSNamespace + "comment"
	RDFSSubClassOf    = RDFSNamespace + "subClassOf"
	RDFSSubPropertyOf = RDFSNamespace + "subPropertyOf"
	RDFSDomain        = RDFSNamespace + "domain"
	RDFSRange         = RDFSNamespace + "range"
	RDFSIsDefinedBy   = RDFSNamespace + "isDefinedBy"
	RDFSSeeAlso       = RDFSNamespace + "seeAlso"
)

// OWL entity types.
const (
	OWLOntology           = OWLNamespace + "Ontology"
	OWLClass              = OWLNamespace + "Class"
	OWLRestriction        = OWLNamespace + "Restriction"
	OWLObjectProperty     = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty   = OWLNamespace + "DatatypeProperty"
	OWLAnnotationProperty = OWLNamespace + "AnnotationProperty"
	OWLNamedIndividual    = OWLNamespace + "NamedIndividual"
	OWLThing              = OWLNamespace + "Thing"
	OWLNothing            = OWLNamespace + "Nothing"
	OWLAllDisjointClasses = OWLNamespace + "AllDisjointClasses"
)

// OWL property characteristics.
const (
	OWLFunctionalProperty        = OWLNamespace + "FunctionalProperty"
	OWLInverseFunctionalProperty = OWLNamespace + "InverseFunctionalProperty"
	OWLTransitiveProperty        = OWLNamespace + "TransitiveProperty"
	OWLSymmetricProperty         = OWLNamespace + "SymmetricProperty"
	OWLAsymmetricProperty        = OWLNamespace + "AsymmetricProperty"
	OWLReflexiveProperty         = OWLNamespace + "ReflexiveProperty"
	OWLIrreflexiveProperty       = OWLNamespace + "IrreflexiveProperty"
)

// OWL axioms and ontology header predicates.
const (
	OWLImports              = OWLNamespace + "imports"
	OWLVersionInfo          = OWLNamespace + "versionInfo"
	OWLVersionIRI           = OWLNamespace + "versionIRI"
	OWLPriorVersion         = OWLNamespace + "priorVersion"
	OWLEquivalentClass      = OWLNamespace + "equivalentClass"
	OWLEquivalentProperty   = OWLNamespace + "equivalentProperty"
	OWLDisjointWith         = OWLNamespace + "disjointWith"
	OWLPropertyDisjointWith = OWLNamespace + "propertyDisjointWith"
	OWLInverseOf            = OWLNamespace + "inverseOf"
	OWLSameAs               = OWLNamespace + "sameAs"
	OWLMembers              = OWLNamespace + "members"
	OWLPropertyChainAxiom   = OWLNamespace + "propertyChainAxiom"
	OWLDeprecated           = OWLNamespace + "deprecated"
)

// OWL class expression predicates.
const (
	OWLOnProperty              = OWLNamespace + "onProperty"
	OWLOnClass                 = OWLNamespace + "onClass"
	OWLOnDataRange             = OWLNamespace + "onDataRange"
	OWLSomeValuesFrom          = OWLNamespace + "someValuesFrom"
	OWLAllValuesFrom           = OWLNamespace + "allValuesFrom"
	OWLHasValue                = OWLNamespace + "hasValue"
	OWLMinCardinality          = OWLNamespace + "minCardinality"
	OWLMaxCardinality          = OWLNamespace + "maxCardinality"
	OWLCardinality             = OWLNamespace + "cardinality"
	OWLMinQualifiedCardinality = OWLNamespace + "minQualifiedCardinality"
	OWLMaxQualifiedCardinality = OWLNamespace + "maxQualifiedCardinality"
	OWLQualifiedCardinality    = OWLNamespace + "qualifiedCardinality"
	OWLUnionOf                 = OWLNamespace + "unionOf"
	OWLIntersectionOf          = OWLNamespace + "intersectionOf"
	OWLComplementOf            = OWLNamespace + "complementOf"
	OWLOneOf                   = OWLNamespace + "oneOf"
)

// Dublin Core elements.
const (
	DCTitle       = DCNamespace + "title"
	DCDescription = DCNamespace + "description"
	DCCreator     = DCNamespace + "creator"
	DCContributor = DCNamespace + "contributor"
	DCPublisher   = DCNamespace + "publisher"
	DCDate        = DCNamespace + "date"
	DCRights      = DCNamespace + "rights"
)

// Dublin Core terms.
const (
	DCTermsTitle       = DCTermsNamespace + "title"
	DCTermsDescription = DCTermsNamespace + "description"
	DCTermsAbstract    = DCTermsNamespace + "abstract"
	DCTermsCreator     = DCTermsNamespace + "creator"
	DCTermsContributor = DCTermsNamespace + "contributor"
	DCTermsPublisher   = DCTermsNamespace + "publisher"
	DCTermsDate        = DCTermsNamespace + "date"
	DCTermsCreated     = DCTermsNamespace + "created"
	DCTermsModified    = DCTermsNamespace + "modified"
	DCTermsRights      = DCTermsNamespace + "rights"
	DCTermsLicense     = DCTermsNamespace + "license"
)

// SKOS annotation predicates.
const (
	SKOSPrefLabel  = SKOSNamespace + "prefLabel"
	SKOSAltLabel   = SKOSNamespace + "altLabel"
	SKOSDefinition = SKOSNamespace + "definition"
	SKOSExample    = SKOSNamespace + "example"
	SKOSNote       = SKOSNamespace + "note"
	SKOSScopeNote  = SKOSNamespace + "scopeNote"
)
