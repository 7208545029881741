// Package types defines the Catalogue and Drafts interfaces, the Plant and
// Photo entity types, store events, configuration, and the standard error
// types for Plantbook.
package types
