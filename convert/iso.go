package convert

import (
	"time"

	"github.com/beevik/etree"

	"github.com/miku/isokit/dateutil"
	"github.com/miku/isokit/fields"
	"github.com/miku/isokit/project"
	"github.com/miku/isokit/source"
	"github.com/miku/isokit/tree"
)

// Placeholder locations in the ISO 19139 templates.
const (
	Metadata       = "/gmd:MD_Metadata"
	Identification = Metadata + "/gmd:identificationInfo/gmd:MD_DataIdentification"
	Citation       = Identification + "/gmd:citation/gmd:CI_Citation"
	Extent         = Identification + "/gmd:extent/gmd:EX_Extent"
	Distribution   = Metadata + "/gmd:distributionInfo/gmd:MD_Distribution"
	Constraints    = Identification + "/gmd:resourceConstraints/gmd:MD_LegalConstraints"

	FileIdentifierPath = Metadata + "/gmd:fileIdentifier"
	AssetTypePath      = Metadata + "/gmd:hierarchyLevel"
	MetadataContact    = Metadata + "/gmd:contact"
	DateStampPath      = Metadata + "/gmd:dateStamp"
	LandingPagePath    = Metadata + "/gmd:dataSetURI"
	RelatedLinkPath    = Metadata + "/gmd:metadataExtensionInfo"

	TitlePath           = Citation + "/gmd:title"
	AlternateTitlePath  = Citation + "/gmd:alternateTitle"
	PublicationDatePath = Citation + "/gmd:date"
	EditionPath         = Citation + "/gmd:edition"
	CitedContact        = Citation + "/gmd:citedResponsibleParty"

	AbstractPath              = Identification + "/gmd:abstract"
	CreditPath                = Identification + "/gmd:credit"
	StatusPath                = Identification + "/gmd:status"
	SupportContact            = Identification + "/gmd:pointOfContact"
	ResourceFormatPath        = Identification + "/gmd:resourceFormat"
	SpatialRepresentationPath = Identification + "/gmd:spatialRepresentationType"
	SpatialResolutionPath     = Identification + "/gmd:spatialResolution"
	TopicCategoryPath         = Identification + "/gmd:topicCategory"
	EnvironmentPath           = Identification + "/gmd:environmentDescription"
	SupplementalPath          = Identification + "/gmd:supplementalInformation"
	UseLimitationPath         = Constraints + "/gmd:useLimitation"
	OtherConstraintsPath      = Constraints + "/gmd:otherConstraints"

	GCMDKeywordPath  = Identification + "/gmd:descriptiveKeywords/gmd:MD_Keywords[contains(gmd:thesaurusName/gmd:CI_Citation/gmd:title/gco:CharacterString, 'GCMD')]/gmd:keyword"
	ResourceTypePath = Identification + "/gmd:descriptiveKeywords/gmd:MD_Keywords[contains(gmd:thesaurusName/gmd:CI_Citation/gmd:title/gco:CharacterString, 'Resource Type')]/gmd:keyword"

	BoundingBoxPath         = Extent + "/gmd:geographicElement"
	TemporalExtentPath      = Extent + "/gmd:temporalElement"
	TemporalResolutionPath  = Extent + "/gmd:description"
	DistributorPath         = Distribution + "/gmd:distributor"
	DistributionFormatPath  = Distribution + "/gmd:distributionFormat"
	TransferOptionsPath     = Distribution + "/gmd:transferOptions"
	characterString         = "gco:CharacterString"
	authorRoleCodeCondition = "[gmd:CI_ResponsibleParty/gmd:role/gmd:CI_RoleCode[@codeListValue='author']]"
)

// Wrapper elements removed together with unused placeholders.
var (
	keywordPrune = project.PruneRule{
		Wrappers: []string{"gmd:MD_Keywords", "gmd:descriptiveKeywords"},
		Scaffold: []string{"gmd:thesaurusName", "gmd:type"},
	}
	extentPrune       = project.PruneRule{Wrappers: []string{"gmd:EX_Extent", "gmd:extent"}}
	constraintsPrune  = project.PruneRule{Wrappers: []string{"gmd:MD_LegalConstraints", "gmd:resourceConstraints"}}
	distributionPrune = project.PruneRule{Wrappers: []string{"gmd:MD_Distribution", "gmd:distributionInfo"}}
)

// text is a character string field.
func text(name, path string, card fields.Cardinality) fields.Field {
	return fields.Field{Name: name, Path: path, Card: card, Write: fields.Text(characterString)}
}

// code is a code list field; rel is the code list element.
func code(name, path, rel string, card fields.Cardinality) fields.Field {
	return fields.Field{Name: name, Path: path, Card: card, CodeList: true, Write: fields.Text(rel)}
}

// contact is a party field filled with the given policy.
func contact(name, path, role string, card fields.Cardinality, policy project.Policy) fields.Field {
	return fields.Field{Name: name, Path: path, Card: card, Party: true, Role: role, Policy: policy}
}

func now(t time.Time) any {
	return dateutil.DateTime(t)
}

// publicationDate writes a date normalized to what gco:Date accepts.
func publicationDate() fields.Writer {
	return func(sel *tree.Selector, el *etree.Element, f *fields.Field, v source.Value) error {
		target, err := sel.LocateFirst(el, ".//gco:Date")
		if err != nil {
			return err
		}
		tree.WriteOrMarkMissing(target, dateutil.NormalizeDate(v.String()), false)
		return nil
	}
}

// Fields shared by all dialects. Tables take copies and adjust tier specific
// settings.
var (
	fileIdentifierField  = text("metadata_id", FileIdentifierPath, fields.Single)
	dateStampField       = fields.Field{Name: "metadata_date", Path: DateStampPath, Write: fields.Text("gco:DateTime"), Default: now}
	landingPageField     = text("landing_page", LandingPagePath, fields.Single)
	titleField           = text("title", TitlePath, fields.Single)
	publicationDateField = fields.Field{Name: "publication_date", Path: PublicationDatePath, Write: publicationDate()}
	abstractField        = text("abstract", AbstractPath, fields.Single)
	resourceTypeField    = fields.Field{Name: "resource_type", Path: ResourceTypePath, Write: fields.Text(characterString), Prune: keywordPrune}
	legalField           = fields.Field{Name: "legal_constraints", Path: UseLimitationPath, Write: fields.Text(characterString), Prune: constraintsPrune}
	accessField          = fields.Field{Name: "access_constraints", Path: OtherConstraintsPath, Write: fields.Text(characterString), Prune: constraintsPrune}
	keywordsField        = fields.Field{Name: "keywords", Path: GCMDKeywordPath, Card: fields.Repeatable, Write: fields.Keyword(characterString), Prune: keywordPrune}
	boundingBoxField     = fields.Field{Name: "geolocation", Path: BoundingBoxPath, Card: fields.OptionalGroup, Write: fields.BoundingBox(), Prune: extentPrune}
	temporalField        = fields.Field{Name: "temporal_coverage", Path: TemporalExtentPath, Card: fields.OptionalGroup, Write: fields.TemporalExtent(), Prune: extentPrune}
	temporalResField     = fields.Field{Name: "temporal_resolution", Path: TemporalResolutionPath, Card: fields.OptionalSingle, Write: fields.Text(characterString), Prune: extentPrune}
	relatedLinkField     = fields.Field{Name: "related_link", Path: RelatedLinkPath, Card: fields.Repeatable, Write: fields.OnlineResource()}
	alternateTitleField  = text("alternate_identifier", AlternateTitlePath, fields.Repeatable)
	editionField         = text("resource_version", EditionPath, fields.OptionalSingle)
	resourceFormatField  = fields.Field{Name: "resource_format", Path: ResourceFormatPath, Card: fields.Repeatable, Write: fields.Format()}
	creditField          = text("citation", CreditPath, fields.Single)
	environmentField     = text("software_implementation_language", EnvironmentPath, fields.OptionalSingle)
	supplementalField    = text("additional_information", SupplementalPath, fields.OptionalSingle)
	spatialRepField      = code("spatial_representation", SpatialRepresentationPath, "gmd:MD_SpatialRepresentationTypeCode", fields.Repeatable)
	spatialResField      = fields.Field{Name: "spatial_resolution", Path: SpatialResolutionPath, Card: fields.Repeatable, Write: fields.Distance()}
	topicField           = fields.Field{Name: "topic_category", Path: TopicCategoryPath, Card: fields.Repeatable, Write: fields.Text("gmd:MD_TopicCategoryCode")}
	progressField        = code("progress", StatusPath, "gmd:MD_ProgressCode", fields.OptionalSingle)
	distFormatField      = fields.Field{Name: "distribution_format", Path: DistributionFormatPath, Card: fields.Repeatable, Write: fields.Text(".//gmd:name/gco:CharacterString"), Prune: distributionPrune}
	transferSizeField    = fields.Field{Name: "asset_size_MB", Path: TransferOptionsPath, Card: fields.OptionalSingle, Write: fields.Text(".//gco:Real"), Prune: distributionPrune}
)

// with returns a copy of f changed by opts.
func with(f fields.Field, opts ...func(*fields.Field)) fields.Field {
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func selective(f *fields.Field) { f.Policy = project.OverwriteIfPresent }

func keepDefault(f *fields.Field) {
	f.Policy = project.OverwriteIfPresent
	f.KeepDefault = true
}
