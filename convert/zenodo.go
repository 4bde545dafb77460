package convert

import (
	"strings"

	"github.com/miku/isokit/dateutil"
	"github.com/miku/isokit/schema/datacite"
	"github.com/miku/isokit/schema/zenodo"
	"github.com/miku/isokit/source"
)

// ZenodoToRecord turns a Zenodo record into a logical record, using the
// same keys as DataCiteToRecord. The roles vocabulary maps Zenodo
// contributor types to ISO role codes.
func ZenodoToRecord(r *zenodo.Record, roles map[string]string) (source.Record, error) {
	md := r.Metadata
	doi := NormalizeDOI(r.DOI)
	if doi == "" {
		doi = NormalizeDOI(md.DOI)
	}
	if doi == "" {
		return nil, ErrSkipNoDOI
	}
	rec := source.Record{
		"metadata_id":  doi,
		"landing_page": "https://doi.org/" + doi,
		"publisher":    party("", "Zenodo", "", "publisher"),
	}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			rec[key] = value
		}
	}
	title := md.Title
	if title == "" {
		title = r.Title
	}
	set("title", cleanTitle(title))
	set("abstract", PlainText(md.Description))
	set("publication_date", dateutil.NormalizeDate(md.PublicationDate))
	set("resource_version", md.Version)
	set("additional_information", PlainText(md.Notes))
	if rt := md.ResourceType; rt != nil {
		if rt.Title != "" {
			set("resource_type", rt.Title)
		} else {
			set("resource_type", rt.Type)
		}
	}
	var authors []any
	for _, c := range md.Creators {
		if strings.TrimSpace(c.Name) != "" {
			authors = append(authors, party(c.Name, c.Affiliation, "", "author"))
		}
	}
	if len(authors) > 0 {
		rec["author"] = authors
	}
	var cited, support []any
	for _, c := range md.Contributors {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		role := roles[c.Type]
		p := party(c.Name, c.Affiliation, "", role)
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
	if keywords := appendNonEmpty(nil, md.Keywords...); len(keywords) > 0 {
		rec["keywords"] = keywords
	}
	var rights []datacite.Rights
	if l := md.License; l != nil {
		name := l.Title
		if name == "" {
			name = l.ID
		}
		rights = append(rights, datacite.Rights{Rights: name, RightsUri: l.URL})
	}
	if md.AccessRight != "" {
		rights = append(rights, datacite.Rights{Rights: "Access right: " + md.AccessRight})
	}
	legal, access := Rights(rights)
	set("legal_constraints", legal)
	set("access_constraints", access)

	var links []any
	for _, ri := range md.RelatedIdentifiers {
		linkage := relatedLinkage(ri)
		if linkage == "" {
			continue
		}
		name := UnknownURLTitle
		if ri.Relation != "" {
			name = "Related Resource: " + ri.Relation
		}
		links = append(links, source.Record{
			"linkage":     linkage,
			"name":        name,
			"description": UnknownURLDescription,
		})
	}
	if len(links) > 0 {
		rec["related_link"] = links
	}
	return rec, nil
}

// relatedLinkage returns a resolvable URL for URL and DOI identifiers.
func relatedLinkage(ri zenodo.RelatedIdentifier) string {
	id := strings.TrimSpace(ri.Identifier)
	switch strings.ToLower(ri.Scheme) {
	case "url":
		return id
	case "doi":
		if doi := NormalizeDOI(id); doi != "" {
			return "https://doi.org/" + doi
		}
	case "":
		if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
			return id
		}
	}
	return ""
}
