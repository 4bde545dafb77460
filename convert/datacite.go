package convert

import (
	"strconv"
	"strings"

	"github.com/miku/isokit/dateutil"
	"github.com/miku/isokit/fields"
	"github.com/miku/isokit/project"
	"github.com/miku/isokit/schema/datacite"
	"github.com/miku/isokit/source"
)

// Placeholder texts for related links, DataCite carries only the URL.
const (
	UnknownURLTitle       = "Unknown URL title"
	UnknownURLDescription = "Unknown URL description"
)

// DataCiteTables map records derived from DataCite or Zenodo onto the ISO
// 19139 template. Contacts are filled selectively, so template defaults
// survive for members the source does not carry. Fields DataCite never
// provides are listed as optional, which removes their placeholders.
var DataCiteTables = fields.Tables{
	ID: "metadata_id",
	Required: []fields.Field{
		fileIdentifierField,
		dateStampField,
		landingPageField,
		resourceTypeField,
		titleField,
		publicationDateField,
		contact("author", CitedContact, "author", fields.Repeatable, project.OverwriteIfPresent),
		contact("publisher", CitedContact, "publisher", fields.Single, project.OverwriteIfPresent),
	},
	Recommended: []fields.Field{
		with(contact("metadata_contact", MetadataContact, "pointOfContact", fields.Single, project.OverwriteIfPresent), keepDefault),
		abstractField,
		contact("other_responsible_party", CitedContact, "", fields.Repeatable, project.OverwriteIfPresent),
		contact("resource_support", SupportContact, "", fields.Repeatable, project.OverwriteIfPresent),
		keywordsField,
		legalField,
		accessField,
		boundingBoxField,
		temporalField,
	},
	Optional: []fields.Field{
		relatedLinkField,
		alternateTitleField,
		editionField,
		resourceFormatField,
		with(creditField, func(f *fields.Field) { f.Card = fields.OptionalSingle }),
		progressField,
		spatialRepField,
		spatialResField,
		topicField,
		environmentField,
		temporalResField,
		supplementalField,
		with(contact("distributor", DistributorPath, "distributor", fields.OptionalSingle, project.OverwriteIfPresent), func(f *fields.Field) {
			f.Prune = distributionPrune
		}),
		distFormatField,
		transferSizeField,
	},
}

// DataCiteToRecord turns a DataCite document into a logical record. The
// roles vocabulary maps contributor types to ISO role codes; contributors
// that map to pointOfContact become support contacts, all others are cited.
func DataCiteToRecord(doc *datacite.Document, roles map[string]string) (source.Record, error) {
	attr := doc.Attributes
	doi := NormalizeDOI(attr.DOI)
	if doi == "" {
		doi = NormalizeDOI(doc.ID)
	}
	if doi == "" {
		return nil, ErrSkipNoDOI
	}
	rec := source.Record{
		"metadata_id":  doi,
		"landing_page": "https://doi.org/" + doi,
	}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			rec[key] = value
		}
	}
	set("resource_type", attr.Types.ResourceTypeGeneral)
	set("title", dataCiteTitle(attr.Titles))
	set("abstract", dataCiteAbstract(attr.Descriptions))
	set("publication_date", dataCitePublicationDate(attr))
	set("resource_version", attr.Version)

	var authors []any
	for _, c := range attr.Creators {
		if name := creatorName(c); name != "" {
			authors = append(authors, party(name, firstAffiliation(c), "", "author"))
		}
	}
	if len(authors) > 0 {
		rec["author"] = authors
	}
	if attr.Publisher.Name != "" {
		rec["publisher"] = party("", attr.Publisher.Name, "", "publisher")
	}
	var cited, support []any
	for _, c := range attr.Contributors {
		if c.ContributorType == "" {
			continue
		}
		role := roles[c.ContributorType]
		p := party(creatorName(c.Creator), firstAffiliation(c.Creator), "", role)
		if role == "pointOfContact" {
			support = append(support, p)
		} else {
			cited = append(cited, p)
		}
	}
	if len(cited) > 0 {
		rec["other_responsible_party"] = cited
	}
	if len(support) > 0 {
		rec["resource_support"] = support
	}
	var keywords []any
	for _, s := range attr.Subjects {
		keywords = appendNonEmpty(keywords, s.Subject)
	}
	if len(keywords) > 0 {
		rec["keywords"] = keywords
	}
	legal, access := Rights(attr.RightsList)
	set("legal_constraints", legal)
	set("access_constraints", access)

	var links []any
	for _, r := range attr.RelatedIdentifiers {
		if r.RelatedIdentifierType != "URL" || strings.TrimSpace(r.RelatedIdentifier) == "" {
			continue
		}
		links = append(links, source.Record{
			"linkage":     strings.TrimSpace(r.RelatedIdentifier),
			"name":        UnknownURLTitle,
			"description": UnknownURLDescription,
		})
	}
	if len(links) > 0 {
		rec["related_link"] = links
	}
	if box := dataCiteBox(attr.GeoLocations); box != nil {
		rec["geolocation"] = box
	}
	for _, d := range attr.Dates {
		if d.DateType != "Collected" {
			continue
		}
		if start, end := dateutil.SplitRange(d.Date); start != "" {
			rec["temporal_coverage"] = source.Record{"start": start, "end": end}
			break
		}
	}
	if formats := resourceFormatList(attr.Formats); len(formats) > 0 {
		rec["resource_format"] = formats
	}
	return rec, nil
}

// dataCiteTitle prefers the main title over alternative and translated ones.
func dataCiteTitle(titles []datacite.Title) string {
	for _, t := range titles {
		if t.TitleType == "" && strings.TrimSpace(t.Title) != "" {
			return cleanTitle(t.Title)
		}
	}
	for _, t := range titles {
		if s := cleanTitle(t.Title); s != "" {
			return s
		}
	}
	return ""
}

func dataCiteAbstract(descriptions []datacite.Description) string {
	for _, d := range descriptions {
		if d.DescriptionType == "Abstract" && strings.TrimSpace(d.Description) != "" {
			return PlainText(d.Description)
		}
	}
	for _, d := range descriptions {
		if s := PlainText(d.Description); s != "" {
			return s
		}
	}
	return ""
}

func dataCitePublicationDate(attr datacite.Attributes) string {
	if attr.Published != "" {
		return dateutil.NormalizeDate(attr.Published)
	}
	if attr.PublicationYear > 0 {
		return strconv.FormatInt(attr.PublicationYear, 10)
	}
	return ""
}

// dataCiteBox returns the first complete bounding box.
func dataCiteBox(locations []datacite.GeoLocation) source.Record {
	for _, loc := range locations {
		b := loc.GeoLocationBox
		if b == nil {
			continue
		}
		box := source.Record{
			"west":  string(b.WestBoundLongitude),
			"east":  string(b.EastBoundLongitude),
			"south": string(b.SouthBoundLatitude),
			"north": string(b.NorthBoundLatitude),
		}
		complete := true
		for _, v := range box {
			if v == "" {
				complete = false
			}
		}
		if complete {
			return box
		}
	}
	return nil
}

func creatorName(c datacite.Creator) string {
	if s := strings.TrimSpace(c.Name); s != "" {
		return s
	}
	switch {
	case c.FamilyName != "" && c.GivenName != "":
		return c.FamilyName + ", " + c.GivenName
	default:
		return strings.TrimSpace(c.FamilyName + c.GivenName)
	}
}

func firstAffiliation(c datacite.Creator) string {
	for _, a := range c.Affiliation {
		if s := strings.TrimSpace(a.Name); s != "" {
			return s
		}
	}
	return ""
}
