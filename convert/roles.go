package convert

// DataCiteRoles maps DataCite contributorType values to ISO CI_RoleCode
// values. An empty code leaves the template role in place.
var DataCiteRoles = map[string]string{
	"Creator":               "author",
	"Publisher":             "publisher",
	"ContactPerson":         "pointOfContact",
	"DataCollector":         "",
	"DataCurator":           "custodian",
	"DataManager":           "custodian",
	"Distributor":           "distributor",
	"Editor":                "editor",
	"Funder":                "funder",
	"HostingInstitution":    "resourceProvider",
	"Producer":              "mediator",
	"ProjectLeader":         "principalInvestigator",
	"ProjectManager":        "",
	"ProjectMember":         "contributor",
	"RegistrationAgency":    "",
	"RegistrationAuthority": "",
	"RelatedPerson":         "contributor",
	"Researcher":            "contributor",
	"ResearchGroup":         "collaborator",
	"RightsHolder":          "rightsHolder",
	"Sponsor":               "sponsor",
	"Supervisor":            "",
	"WorkPackageLeader":     "",
	"Other":                 "contributor",
}

// ISOToZenodoRoles maps ISO role codes to Zenodo contributor types.
var ISOToZenodoRoles = map[string]string{
	"resourceProvider":      "Distributor",
	"custodian":             "DataManager",
	"owner":                 "RightsHolder",
	"user":                  "Other",
	"distributor":           "Distributor",
	"originator":            "DataCollector",
	"pointOfContact":        "ContactPerson",
	"principalInvestigator": "ProjectLeader",
	"processor":             "Other",
	"publisher":             "Producer",
}

// ZenodoToISORoles maps Zenodo contributor types back to ISO role codes.
// Where several ISO codes map to one Zenodo type, the more specific code
// wins; Other has no ISO counterpart.
var ZenodoToISORoles = map[string]string{
	"ContactPerson":      "pointOfContact",
	"DataCollector":      "originator",
	"DataCurator":        "custodian",
	"DataManager":        "custodian",
	"Distributor":        "distributor",
	"Editor":             "editor",
	"Funder":             "funder",
	"HostingInstitution": "resourceProvider",
	"Other":              "",
	"Producer":           "publisher",
	"ProjectLeader":      "principalInvestigator",
	"ProjectMember":      "contributor",
	"Researcher":         "contributor",
	"ResearchGroup":      "collaborator",
	"RightsHolder":       "owner",
	"Sponsor":            "sponsor",
}
