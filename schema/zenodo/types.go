// Package zenodo contains the JSON shape of Zenodo REST API records and
// deposition metadata, see https://developers.zenodo.org/.
package zenodo

import (
	"bytes"

	"github.com/segmentio/encoding/json"
)

// Record is a published record, as returned by /api/records/<id>.
type Record struct {
	Created  string   `json:"created"`
	DOI      string   `json:"doi"`
	DOIURL   string   `json:"doi_url"`
	ID       int64    `json:"id"`
	Links    Links    `json:"links"`
	Metadata Metadata `json:"metadata"`
	Modified string   `json:"modified"`
	Title    string   `json:"title"`
}

type Links struct {
	DOI  string `json:"doi"`
	HTML string `json:"html"`
	Self string `json:"self"`
}

// Metadata of a record. The same shape, restricted to a few fields, is sent
// when creating a deposition.
type Metadata struct {
	AccessRight        string              `json:"access_right,omitempty"`
	Contributors       []Person            `json:"contributors,omitempty"`
	Creators           []Person            `json:"creators,omitempty"`
	Description        string              `json:"description,omitempty"`
	DOI                string              `json:"doi,omitempty"`
	Keywords           []string            `json:"keywords,omitempty"`
	License            *License            `json:"license,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	PublicationDate    string              `json:"publication_date,omitempty"`
	RelatedIdentifiers []RelatedIdentifier `json:"related_identifiers,omitempty"`
	ResourceType       *ResourceType       `json:"resource_type,omitempty"`
	Title              string              `json:"title,omitempty"`
	UploadType         string              `json:"upload_type,omitempty"`
	Version            string              `json:"version,omitempty"`
}

// Person is a creator or, with a type, a contributor.
type Person struct {
	Affiliation string `json:"affiliation,omitempty"`
	Name        string `json:"name"`
	ORCID       string `json:"orcid,omitempty"`
	Type        string `json:"type,omitempty"`
}

// License is an object in records and a plain identifier in depositions.
type License struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (l *License) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &l.ID)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	type plain License
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = License(v)
	return nil
}

type RelatedIdentifier struct {
	Identifier   string `json:"identifier"`
	Relation     string `json:"relation"`
	ResourceType string `json:"resource_type,omitempty"`
	Scheme       string `json:"scheme,omitempty"`
}

type ResourceType struct {
	Subtype string `json:"subtype,omitempty"`
	Title   string `json:"title,omitempty"`
	Type    string `json:"type"`
}

// Deposition wraps metadata for the deposition API.
type Deposition struct {
	Metadata Metadata `json:"metadata"`
}
