package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultProducerID groups bundles that arrive without a producer.
const DefaultProducerID = "unknown"

// FileRecord describes one file of a bundle. Content is nil when the loader
// did not read the file (binary, too large, or absent). Truncated marks content
// cut at the loader's byte limit.
type FileRecord struct {
	Exists       bool       `json:"exists"`
	Content      *string    `json:"content,omitempty"`
	Truncated    bool       `json:"truncated,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// Text returns the loaded content or an empty string.
func (f FileRecord) Text() string {
	if f.Content == nil {
		return ""
	}
	return *f.Content
}

// ByteSize prefers the recorded size and falls back to the content length.
func (f FileRecord) ByteSize() int64 {
	if f.Size != nil {
		return *f.Size
	}
	return int64(len(f.Text()))
}

// ArtifactBundle is the in-memory view of one generation run's output.
type ArtifactBundle struct {
	ProducerID string                `json:"producer_id,omitempty"`
	Location   string                `json:"location"`
	Files      map[string]FileRecord `json:"files"`
}

// Producer returns the producer id or DefaultProducerID.
func (b *ArtifactBundle) Producer() string {
	if b == nil || b.ProducerID == "" {
		return DefaultProducerID
	}
	return b.ProducerID
}

// Has reports whether name is present and exists.
func (b *ArtifactBundle) Has(name string) bool {
	if b == nil {
		return false
	}
	rec, ok := b.Files[name]
	return ok && rec.Exists
}

// ExistingNames returns the sorted names of files that exist.
func (b *ArtifactBundle) ExistingNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.Files))
	for name, rec := range b.Files {
		if rec.Exists {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewTextFile builds an existing FileRecord from literal content.
func NewTextFile(content string, modified time.Time) FileRecord {
	size := int64(len(content))
	c := content
	rec := FileRecord{Exists: true, Content: &c, Size: &size}
	if !modified.IsZero() {
		m := modified.UTC()
		rec.LastModified = &m
	}
	return rec
}

// MissingFile is the record for an expected file that is absent.
func MissingFile() FileRecord {
	return FileRecord{Exists: false}
}

// Bundle is an uploaded bundle stored under the upload directory.
type Bundle struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProducerID string    `gorm:"type:text;index" json:"producer_id"`
	Location   string    `gorm:"type:text" json:"location"`
	FileCount  int       `gorm:"not null;default:0" json:"file_count"`
	TotalBytes int64     `gorm:"not null;default:0" json:"total_bytes"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (b *Bundle) TableName() string {
	return "bundles"
}
