// Package plantbook holds release metadata for the plantbook module.
package plantbook

// Version is the current plantbook release.
const Version = "0.1.0"
