package manifest

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// New creates an empty manifest for a device.
func New(device Device, format string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Device:      device,
		Format:      format,
		Pages:       []Page{},
	}
}

// HashString formats a 64-bit checksum the way pages record it.
func HashString(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// AddPage appends a page entry.
func (m *Manifest) AddPage(file string, width, height int, size int64, checksum uint64) {
	m.Pages = append(m.Pages, Page{
		File:   file,
		Width:  width,
		Height: height,
		Size:   size,
		Hash:   HashString(checksum),
	})
}

// ComputeStats recalculates the page-derived statistics. Input bytes, the
// processed count and duration are set by the caller.
func (m *Manifest) ComputeStats() {
	m.Stats.TotalPages = len(m.Pages)
	m.Stats.TotalOutputBytes = 0
	for _, p := range m.Pages {
		m.Stats.TotalOutputBytes += p.Size
	}
	m.Stats.SkippedCount = len(m.Skipped)
}

// WriteJSON serializes the manifest to path.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if m.Version != SupportedManifestVersion {
		return nil, errors.Errorf("unsupported manifest version %d", m.Version)
	}
	return &m, nil
}
