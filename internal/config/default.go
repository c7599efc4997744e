package config

// File names of the intent-data export the default config describes.
const (
	FileKeywordSets        = "db1_keyword_sets_file_sample.csv"
	FileKeywordSetKeywords = "db1_keyword_set_keywords_file_sample.csv"
	FileCompanies          = "db_company_file_sample.csv"
	FileCompaniesFull      = "db_company_full_file_sample.csv"
	FileContacts           = "db_contacts_file_sample.csv"
	FileIntentGeo          = "db_company_intent_geo_weekly_file_sample.csv"
	FileIntentScores       = "db_company_intent_geo_weekly_keywordset_contact_scores_file_sample.csv"
)

// Default returns the built-in description of the intent-data export:
// documented column types, the known key relationships including the
// company hierarchy pointers, mirror table names with their indexes, and
// the standard report policy.
func Default() *Config {
	return &Config{
		Schemas: map[string]map[string]string{
			FileIntentGeo: {
				"company_id":             "integer",
				"domain":                 "text",
				"start_date":             "text",
				"end_date":               "text",
				"duration_type":          "text",
				"keyword_set_id":         "integer",
				"keyword_set":            "text",
				"keyword":                "text",
				"country":                "text",
				"census_division":        "text",
				"region":                 "text",
				"city":                   "text",
				"num_people_researching": "integer",
				"intent_strength":        "text",
				"partition_date":         "text",
			},
			FileIntentScores: {
				"dt":             "text",
				"keyword_set_id": "integer",
				"company_id":     "integer",
				"employment_id":  "integer",
				"intent_score":   "integer",
				"partition_date": "text",
			},
			FileCompanies: {
				"company_id":  "integer",
				"employees":   "float",
				"revenue":     "float",
				"isroot":      "integer",
				"best_domain": "boolean",
			},
			FileCompaniesFull: {
				"company_id": "integer",
				"employees":  "float",
				"revenue":    "float",
				"isroot":     "float",
				"sic":        "float",
			},
			FileContacts: {
				"executive_id":  "integer",
				"employment_id": "integer",
				"company_id":    "integer",
				"revenue_usd":   "float",
				"employees":     "float",
				"sic_us":        "float",
				"naics":         "float",
				"equifax_id":    "float",
			},
			FileKeywordSets: {
				"id":          "integer",
				"competitive": "boolean",
			},
			FileKeywordSetKeywords: {
				"keyword_set_id": "integer",
			},
		},
		Relationships: []Relationship{
			{ParentTable: FileKeywordSets, ParentKey: "id", ChildTable: FileKeywordSetKeywords, ChildKey: "keyword_set_id"},
			{ParentTable: FileKeywordSets, ParentKey: "id", ChildTable: FileIntentGeo, ChildKey: "keyword_set_id"},
			{ParentTable: FileKeywordSets, ParentKey: "id", ChildTable: FileIntentScores, ChildKey: "keyword_set_id"},
			{ParentTable: FileCompanies, ParentKey: "company_id", ChildTable: FileContacts, ChildKey: "company_id"},
			{ParentTable: FileCompanies, ParentKey: "company_id", ChildTable: FileIntentGeo, ChildKey: "company_id"},
			{ParentTable: FileCompanies, ParentKey: "company_id", ChildTable: FileIntentScores, ChildKey: "company_id"},
			{ParentTable: FileCompaniesFull, ParentKey: "company_id", ChildTable: FileContacts, ChildKey: "company_id"},
			{ParentTable: FileCompaniesFull, ParentKey: "company_id", ChildTable: FileIntentGeo, ChildKey: "company_id"},
			{ParentTable: FileCompaniesFull, ParentKey: "company_id", ChildTable: FileIntentScores, ChildKey: "company_id"},
			{ParentTable: FileContacts, ParentKey: "employment_id", ChildTable: FileIntentScores, ChildKey: "employment_id"},

			// Company hierarchy pointers within a single file.
			{ParentTable: FileCompanies, ParentKey: "company_id", ChildTable: FileCompanies, ChildKey: "parent_id"},
			{ParentTable: FileCompanies, ParentKey: "company_id", ChildTable: FileCompanies, ChildKey: "ultimate_parent_id"},
			{ParentTable: FileCompaniesFull, ParentKey: "company_id", ChildTable: FileCompaniesFull, ChildKey: "parent_id"},
			{ParentTable: FileCompaniesFull, ParentKey: "company_id", ChildTable: FileCompaniesFull, ChildKey: "ultimate_parent_id"},
		},
		Mirror: MirrorConfig{
			Tables: map[string]string{
				FileKeywordSets:        "keyword_sets",
				FileKeywordSetKeywords: "keyword_set_keywords",
				FileCompanies:          "companies",
				FileCompaniesFull:      "companies_full",
				FileContacts:           "contacts",
				FileIntentGeo:          "company_intent_geo",
				FileIntentScores:       "contact_intent_scores",
			},
			Indexes: []Index{
				{Name: "idx_companies_id", Table: "companies", Column: "company_id"},
				{Name: "idx_contacts_company", Table: "contacts", Column: "company_id"},
				{Name: "idx_contacts_employment", Table: "contacts", Column: "employment_id"},
				{Name: "idx_intent_scores_company", Table: "contact_intent_scores", Column: "company_id"},
				{Name: "idx_intent_scores_employment", Table: "contact_intent_scores", Column: "employment_id"},
				{Name: "idx_intent_geo_company", Table: "company_intent_geo", Column: "company_id"},
			},
		},
		Report: ReportConfig{
			StrongIntegrityPct: defaultStrongIntegrityPct,
			HighNullPct:        defaultHighNullPct,
			Highlights: []Highlight{
				{Column: "company_id", Label: "unique companies"},
				{Column: "employment_id", Label: "unique contacts"},
				{Column: "keyword", Label: "unique keywords"},
			},
			KeyColumnPatterns:  []string{"id", "company_id", "employment_id", "keyword_set_id"},
			ExcludeDateColumns: []string{"partition_date"},
		},
	}
}
