// Package devdocs scrapes third-party documentation sites and local
// documentation trees into a normalized, offline-browsable corpus.
//
// This package contains domain types, interfaces and the pure parts of the
// domain (URL scope rules, the filter pipeline) following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package devdocs
