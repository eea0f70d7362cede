// Package weburl provides URL validation and file-safe naming for ontology
// sources.
//
// # URL Validation
//
// Validate accepts http and https URLs with a host. When private addresses
// are blocked (serve mode), it also rejects:
//
//   - localhost variants (localhost, 127.0.0.1, ::1)
//   - local domains (.local, .internal)
//   - private IP ranges (RFC 1918, CGNAT, link-local, IPv6 unique local)
//
// IsPrivateIP is also used by the fetcher's dialer so that hostnames which
// resolve to private addresses are refused at connect time.
//
// # Slugs
//
// Slug creates readable, file-safe names from URLs:
//
//	https://www.w3.org/ns/prov-o → www-w3-org-ns-prov-o
//
// Slugs are lowercase, hyphen separated and at most 80 characters. For
// unparseable URLs a hash-based fallback is generated.
package weburl
