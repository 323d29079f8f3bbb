package manifest

// Manifest describes the pages written by one convert run.
type Manifest struct {
	Version     int       `json:"version"`
	GeneratedAt string    `json:"generated_at"`
	Device      Device    `json:"device"`
	Format      string    `json:"format"`
	Settings    *Settings `json:"settings,omitempty"`
	Pages       []Page    `json:"pages"`
	Skipped     []Skipped `json:"skipped,omitempty"`
	Stats       Stats     `json:"stats"`
}

// Device is the target canvas.
type Device struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Settings captures the pipeline parameters for diagnostics.
type Settings struct {
	Brightness  int     `json:"brightness"`
	Gamma       float64 `json:"gamma"`
	AutoCrop    bool    `json:"auto_crop"`
	Split       string  `json:"split"`
	RightToLeft bool    `json:"right_to_left"`
	MarginColor string  `json:"margin_color"`
	Workers     int     `json:"workers"`
}

// Page is one encoded page on disk.
type Page struct {
	File   string `json:"file"` // relative to the manifest
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // hex xxhash64 of the file contents
}

// Skipped names an input entry that produced no pages.
type Skipped struct {
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	Processed        int   `json:"processed"`
	SkippedCount     int   `json:"skipped"`
	TotalPages       int   `json:"total_pages"`
	DurationMS       int64 `json:"duration_ms"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
