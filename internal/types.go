package internal

// Cell is one decoded table cell. Header is set for <th> cells.
type Cell struct {
	Text   string
	Header bool
}

type Row []Cell

type RawEntry struct {
	Year      int
	Rank      string
	RawTitle  string
	RawArtist string
}

type NormalizedEntry struct {
	Year      int
	Rank      string
	Title     string
	Artist    string
	RawTitle  string
	RawArtist string
}

type ExtractStats struct {
	Candidates    int
	Valid         int
	ShapeErrors   int
	EmptyRejects  int
	HeaderSkipped bool
}

type HeaderRowPolicy string

const (
	HeaderAuto   HeaderRowPolicy = "auto"
	HeaderAlways HeaderRowPolicy = "always"
	HeaderNever  HeaderRowPolicy = "never"
)

type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatXLSX OutputFormat = "xlsx"
)

type YearStatus string

const (
	YearWritten YearStatus = "written"
	YearEmpty   YearStatus = "empty"
	YearNoData  YearStatus = "no_data"
	YearFailed  YearStatus = "failed"
)

type YearResult struct {
	Year       int
	Status     YearStatus
	Stats      ExtractStats
	Dropped    int
	Written    int
	OutputPath string
	Err        error
}
