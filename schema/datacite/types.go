// Package datacite contains the JSON shape of DataCite REST API documents,
// see https://support.datacite.org/docs/api-get-doi.
package datacite

import (
	"bytes"

	"github.com/segmentio/encoding/json"
)

// Response wraps a single document, as returned by /dois/<doi>.
type Response struct {
	Data Document `json:"data"`
}

// Document is a DataCite DOI record.
type Document struct {
	Attributes    Attributes `json:"attributes"`
	ID            string     `json:"id"`
	Relationships struct {
		Client struct {
			Data struct {
				Id   string `json:"id"`
				Type string `json:"type"`
			} `json:"data"`
		} `json:"client"`
	} `json:"relationships"`
	Type string `json:"type"`
}

// Attributes carry the metadata of a DOI.
type Attributes struct {
	Contributors       []Contributor       `json:"contributors"`
	Created            string              `json:"created"`
	Creators           []Creator           `json:"creators"`
	Dates              []Date              `json:"dates"`
	Descriptions       []Description       `json:"descriptions"`
	DOI                string              `json:"doi"`
	Formats            []string            `json:"formats"`
	FundingReferences  []FundingReference  `json:"fundingReferences"`
	GeoLocations       []GeoLocation       `json:"geoLocations"`
	Identifiers        []Identifier        `json:"identifiers"`
	Language           string              `json:"language"`
	PublicationYear    int64               `json:"publicationYear"`
	Published          string              `json:"published"`
	Publisher          Publisher           `json:"publisher"`
	Registered         string              `json:"registered"`
	RelatedIdentifiers []RelatedIdentifier `json:"relatedIdentifiers"`
	RightsList         []Rights            `json:"rightsList"`
	SchemaVersion      string              `json:"schemaVersion"`
	Sizes              []string            `json:"sizes"`
	State              string              `json:"state"`
	Subjects           []Subject           `json:"subjects"`
	Titles             []Title             `json:"titles"`
	Types              struct {
		Bibtex              string `json:"bibtex"`
		Citeproc            string `json:"citeproc"`
		ResourceType        string `json:"resourceType"`
		ResourceTypeGeneral string `json:"resourceTypeGeneral"`
		Ris                 string `json:"ris"`
		SchemaOrg           string `json:"schemaOrg"`
	} `json:"types"`
	Updated string `json:"updated"`
	URL     string `json:"url"`
	Version string `json:"version"`
}

// Affiliation is a plain string unless requested with affiliation=true.
type Affiliation struct {
	AffiliationIdentifier       string `json:"affiliationIdentifier"`
	AffiliationIdentifierScheme string `json:"affiliationIdentifierScheme"`
	Name                        string `json:"name"`
	SchemeUri                   string `json:"schemeUri"`
}

// UnmarshalJSON accepts a string or an object.
func (a *Affiliation) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.Name)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	type plain Affiliation
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Affiliation(v)
	return nil
}

type NameIdentifier struct {
	NameIdentifier       string `json:"nameIdentifier"`
	NameIdentifierScheme string `json:"nameIdentifierScheme"`
	SchemeUri            string `json:"schemeUri"`
}

// Creator of a resource.
type Creator struct {
	Affiliation     []Affiliation    `json:"affiliation"`
	FamilyName      string           `json:"familyName"`
	GivenName       string           `json:"givenName"`
	Name            string           `json:"name"`
	NameIdentifiers []NameIdentifier `json:"nameIdentifiers"`
	NameType        string           `json:"nameType"`
}

// Contributor is a creator with a contributor type, e.g. ContactPerson.
type Contributor struct {
	Creator
	ContributorType string `json:"contributorType"`
}

type Date struct {
	Date     string `json:"date"`
	DateType string `json:"dateType"`
}

type Description struct {
	Description     string `json:"description"`
	DescriptionType string `json:"descriptionType"`
	Lang            string `json:"lang"`
}

type FundingReference struct {
	AwardNumber          string `json:"awardNumber"`
	AwardTitle           string `json:"awardTitle"`
	FunderIdentifier     string `json:"funderIdentifier"`
	FunderIdentifierType string `json:"funderIdentifierType"`
	FunderName           string `json:"funderName"`
}

type GeoLocation struct {
	GeoLocationPlace string `json:"geoLocationPlace"`
	GeoLocationBox   *Box   `json:"geoLocationBox"`
}

// Box is a geographic bounding box.
type Box struct {
	WestBoundLongitude Coordinate `json:"westBoundLongitude"`
	EastBoundLongitude Coordinate `json:"eastBoundLongitude"`
	SouthBoundLatitude Coordinate `json:"southBoundLatitude"`
	NorthBoundLatitude Coordinate `json:"northBoundLatitude"`
}

// Coordinate is a decimal that may be sent as a JSON number or string.
type Coordinate string

// UnmarshalJSON accepts numbers and strings.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Coordinate(n.String())
	return nil
}

type Identifier struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifierType"`
}

// Publisher is a plain string in most responses and an object when
// requested with publisher=true.
type Publisher struct {
	Name                      string `json:"name"`
	PublisherIdentifier       string `json:"publisherIdentifier"`
	PublisherIdentifierScheme string `json:"publisherIdentifierScheme"`
}

// UnmarshalJSON accepts a string or an object.
func (p *Publisher) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &p.Name)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	type plain Publisher
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Publisher(v)
	return nil
}

type RelatedIdentifier struct {
	RelatedIdentifier     string `json:"relatedIdentifier"`
	RelatedIdentifierType string `json:"relatedIdentifierType"`
	RelationType          string `json:"relationType"`
}

type Rights struct {
	Rights                 string `json:"rights"`
	RightsIdentifier       string `json:"rightsIdentifier"`
	RightsIdentifierScheme string `json:"rightsIdentifierScheme"`
	RightsUri              string `json:"rightsUri"`
	SchemeUri              string `json:"schemeUri"`
}

type Subject struct {
	Subject       string `json:"subject"`
	SubjectScheme string `json:"subjectScheme"`
	SchemeUri     string `json:"schemeUri"`
}

type Title struct {
	Lang      string `json:"lang"`
	Title     string `json:"title"`
	TitleType string `json:"titleType"`
}
