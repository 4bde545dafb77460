// Package isokit translates loosely structured JSON metadata (DSET, DataCite,
// Zenodo) into ISO 19139 XML by projecting records onto a template document.
package isokit

const (
	// AppName is used for default data and cache directories.
	AppName = "isokit"
	// Version of the tools.
	Version = "0.3.0"
)
