package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Align controls text/image alignment within a rendered section
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Valid reports whether the alignment is one of the allowed values
func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// FileRef points at a stored artifact (PDF or image)
type FileRef struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	StoragePath string `json:"storagePath"`
}

// Value implements driver.Valuer for JSONB
func (f FileRef) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FileRef) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// Section is an ordered content block within a newsletter. Sections are
// exclusively owned by their parent newsletter and have no independent
// lifecycle.
type Section struct {
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	Paragraph      string    `json:"paragraph"`
	Images         []FileRef `json:"images"`
	WriterName     string    `json:"writerName,omitempty"`
	ParagraphAlign Align     `json:"paragraphAlign"`
	ImageAlign     Align     `json:"imageAlign"`
}

// Sections is the ordered section list, stored as a single JSONB column
type Sections []Section

// Value implements driver.Valuer for JSONB
func (s Sections) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]Section{})
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *Sections) Scan(value interface{}) error {
	if value == nil {
		*s = Sections{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		*s = Sections{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Newsletter represents a publishable document: either a single PDF, or a
// template index plus an ordered list of sections.
type Newsletter struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	TemplateIndex       int       `json:"templateIndex"`
	PDF                 *FileRef  `json:"pdf,omitempty"`
	Sections            Sections  `json:"sections"`
	Published           bool      `json:"published"`
	SubscribersNotified bool      `json:"subscribersNotified"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Artifacts returns every file reference owned by the newsletter: the PDF
// slot plus all section images.
func (n *Newsletter) Artifacts() []FileRef {
	var refs []FileRef
	if n.PDF != nil {
		refs = append(refs, *n.PDF)
	}
	for _, section := range n.Sections {
		refs = append(refs, section.Images...)
	}
	return refs
}

// HasContent reports whether the newsletter carries at least one resolvable
// file reference. A newsletter must have content before it may be published.
func (n *Newsletter) HasContent() bool {
	return n.PDF != nil || len(n.Sections) > 0
}
