package models

// Status classifies the outcome of a domain analysis.
type Status string

const (
	StatusNoSnapshots Status = "no_snapshots"
	StatusClean       Status = "clean"
	StatusSuspicious  Status = "suspicious"
	StatusSpam        Status = "spam"
	StatusError       Status = "error"
)

// StopWordMatch records one matched stop word and how often it occurred.
type StopWordMatch struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ScoreResult is the outcome of scoring one text blob against a stop-word list.
type ScoreResult struct {
	Found []StopWordMatch `json:"found"`
	Count int             `json:"count"`
	Score float64         `json:"score"`
}

// MetaTags holds the head-level metadata of an HTML document.
type MetaTags struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// HTMLAnalysis is the spam assessment of a single HTML document.
type HTMLAnalysis struct {
	TextLength int         `json:"textLength"`
	Meta       MetaTags    `json:"metaTags"`
	StopWords  ScoreResult `json:"stopWords"`
	IsSpam     bool        `json:"isSpam"`
	SpamScore  float64     `json:"spamScore"`
}

// SnapshotRecord identifies one archived capture of a URL.
// Timestamp uses the archive's 14-digit YYYYMMDDhhmmss format.
type SnapshotRecord struct {
	Timestamp   string `json:"timestamp"`
	OriginalURL string `json:"originalUrl"`
	MimeType    string `json:"mimeType,omitempty"`
	StatusCode  string `json:"statusCode,omitempty"`
}

// SnapshotHTML is the fetched body of one archived capture.
type SnapshotHTML struct {
	HTML        string `json:"-"`
	Length      int    `json:"length"`
	SnapshotURL string `json:"snapshotUrl"`
}

// DomainAnalysis aggregates the spam assessment of one domain's snapshots.
type DomainAnalysis struct {
	Domain              string          `json:"domain"`
	SnapshotsChecked    int             `json:"snapshotsChecked"`
	SpamSnapshots       int             `json:"spamSnapshots"`
	SpamPercentage      float64         `json:"spamPercentage"`
	AvgSpamScore        float64         `json:"avgSpamScore"`
	SpamDetected        bool            `json:"spamDetected"`
	TotalStopWordsFound int             `json:"totalStopWordsFound"`
	StopWordsFound      []StopWordMatch `json:"stopWordsFound"`
	FirstSpamDate       string          `json:"firstSpamDate,omitempty"`
	Status              Status          `json:"status"`
}

// DomainReport is one batch entry: either an analysis or a per-domain error.
type DomainReport struct {
	Domain string          `json:"domain"`
	Result *DomainAnalysis `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Status Status          `json:"status"`
}
