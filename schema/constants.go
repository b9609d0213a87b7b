package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for a store.
	DatabaseBackend string

	// Section identifies one of the three report answers.
	Section string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	TableOut   OutputMode = "table"
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	PostgreSQLBackend DatabaseBackend = "postgresql" // default for the record source
	MySQLBackend      DatabaseBackend = "mysql"
	SQLiteBackend     DatabaseBackend = "sqlite"
	NoneBackend       DatabaseBackend = "none"
)

// All report sections, in print order.
const (
	ArticlesSection  Section = "articles"
	AuthorsSection   Section = "authors"
	ErrorDaysSection Section = "errors"
)

// AllSections lists the report sections in their fixed print order.
var AllSections = []Section{ArticlesSection, AuthorsSection, ErrorDaysSection}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	TableOut:   {},
	CSVOut:     {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	PostgreSQLBackend: {},
	MySQLBackend:      {},
	SQLiteBackend:     {},
	NoneBackend:       {},
}

// QuestionFormats holds the question printed above each section in text
// output. The articles question takes the result limit as a word and the
// errors question takes the threshold percentage.
var QuestionFormats = map[Section]string{
	ArticlesSection:  "1. What are the most popular %s articles of all time?",
	AuthorsSection:   "2. Who are the most popular article authors of all time?",
	ErrorDaysSection: "3. On which days did more than %s%% of requests lead to errors?",
}
