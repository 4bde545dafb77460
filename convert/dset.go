package convert

import (
	"github.com/miku/isokit/fields"
	"github.com/miku/isokit/project"
)

// DSETTables map DSET JSON records onto the ISO 19139 template. Contacts are
// written completely, members missing from a record are marked missing.
var DSETTables = fields.Tables{
	ID: "metadata_id",
	Required: []fields.Field{
		fileIdentifierField,
		with(code("asset_type", AssetTypePath, "gmd:MD_ScopeCode", fields.Single), keepDefault),
		contact("metadata_contact", MetadataContact, "pointOfContact", fields.Single, project.OverwriteAlways),
		dateStampField,
		landingPageField,
		titleField,
		publicationDateField,
		contact("author", CitedContact, "author", fields.Repeatable, project.OverwriteAlways),
		contact("publisher", CitedContact, "publisher", fields.Single, project.OverwriteAlways),
		abstractField,
		contact("resource_support", SupportContact, "pointOfContact", fields.Single, project.OverwriteAlways),
		resourceTypeField,
		legalField,
		accessField,
	},
	Recommended: []fields.Field{
		contact("other_responsible_party", CitedContact, "", fields.Repeatable, project.OverwriteAlways),
		creditField,
		contact("science_support", SupportContact, "principalInvestigator", fields.Repeatable, project.OverwriteAlways),
		keywordsField,
		spatialRepField,
		spatialResField,
		topicField,
		boundingBoxField,
		temporalField,
		temporalResField,
	},
	Optional: []fields.Field{
		relatedLinkField,
		alternateTitleField,
		editionField,
		progressField,
		resourceFormatField,
		environmentField,
		supplementalField,
		with(contact("distributor", DistributorPath, "distributor", fields.OptionalSingle, project.OverwriteAlways), func(f *fields.Field) {
			f.Prune = distributionPrune
		}),
		distFormatField,
		transferSizeField,
	},
}
