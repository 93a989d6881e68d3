package service

import (
	"encoding/json"
	"errors"
	"time"

	"jumpstart-backend/models"
)

const maxParagraphLength = 10000

var (
	errEmptyImageName = errors.New("image filename must not be empty")
	errBadImageEntry  = errors.New("image entry must be an uploaded filename or an existing reference")
)

// SectionInput is the validated form of one element of the `sections` form
// field. Each entry in Images is either a bare string naming a file uploaded
// alongside the form, or a full file reference object carried over from an
// earlier save.
type SectionInput struct {
	Title          string            `json:"title"`
	Date           string            `json:"date"`
	Paragraph      string            `json:"paragraph"`
	WriterName     string            `json:"writerName"`
	ParagraphAlign string            `json:"paragraphAlign"`
	ImageAlign     string            `json:"imageAlign"`
	Images         []json.RawMessage `json:"images"`

	date   time.Time
	images []sectionImage
}

type sectionImage struct {
	uploadName string         // set when the entry names a new upload
	ref        models.FileRef // set when the entry is an existing reference
}

// ParseSections deserializes and validates the raw sections JSON from a
// multipart form. It returns the parsed inputs plus the set of upload names
// the sections reference, so callers can check every name against the files
// actually provided. Malformed input is a validation error, never a crash.
func ParseSections(raw string) ([]SectionInput, map[string]bool, error) {
	var inputs []SectionInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, nil, models.NewValidationError(models.CodeInvalidSections,
			"sections must be a JSON array")
	}
	if len(inputs) == 0 {
		return nil, nil, models.NewValidationError(models.CodeInvalidSections,
			"sections must contain at least one section")
	}

	uploadNames := map[string]bool{}
	for i := range inputs {
		input := &inputs[i]
		if input.Title == "" {
			return nil, nil, models.NewValidationError(models.CodeInvalidSections,
				"section %d: title is required", i)
		}
		if input.Paragraph == "" {
			return nil, nil, models.NewValidationError(models.CodeInvalidSections,
				"section %d: paragraph is required", i)
		}
		if len(input.Paragraph) > maxParagraphLength {
			return nil, nil, models.NewValidationError(models.CodeInvalidSections,
				"section %d: paragraph exceeds %d characters", i, maxParagraphLength)
		}

		date, err := parseSectionDate(input.Date)
		if err != nil {
			return nil, nil, models.NewValidationError(models.CodeInvalidSections,
				"section %d: invalid date %q", i, input.Date)
		}
		input.date = date

		if input.ParagraphAlign == "" {
			input.ParagraphAlign = string(models.AlignLeft)
		}
		if input.ImageAlign == "" {
			input.ImageAlign = string(models.AlignLeft)
		}
		if !models.Align(input.ParagraphAlign).Valid() || !models.Align(input.ImageAlign).Valid() {
			return nil, nil, models.NewValidationError(models.CodeInvalidSections,
				"section %d: alignment must be left, center or right", i)
		}

		for j, rawImage := range input.Images {
			image, err := parseSectionImage(rawImage)
			if err != nil {
				return nil, nil, models.NewValidationError(models.CodeInvalidSections,
					"section %d image %d: %s", i, j, err.Error())
			}
			if image.uploadName != "" {
				uploadNames[image.uploadName] = true
			}
			input.images = append(input.images, image)
		}
	}

	return inputs, uploadNames, nil
}

// parseSectionImage accepts a filename string or an existing reference
// object. Anything else is rejected rather than silently dropped.
func parseSectionImage(raw json.RawMessage) (sectionImage, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name == "" {
			return sectionImage{}, errEmptyImageName
		}
		return sectionImage{uploadName: name}, nil
	}

	var ref models.FileRef
	if err := json.Unmarshal(raw, &ref); err == nil && ref.URL != "" && ref.StoragePath != "" {
		return sectionImage{ref: ref}, nil
	}

	return sectionImage{}, errBadImageEntry
}

func parseSectionDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// resolveSections turns parsed inputs into model sections by attaching
// uploaded file references. Every named upload must be present in uploads.
func resolveSections(inputs []SectionInput, uploads map[string]models.FileRef) (models.Sections, error) {
	sections := make(models.Sections, 0, len(inputs))
	for i, input := range inputs {
		section := models.Section{
			Title:          input.Title,
			Date:           input.date,
			Paragraph:      input.Paragraph,
			WriterName:     input.WriterName,
			ParagraphAlign: models.Align(input.ParagraphAlign),
			ImageAlign:     models.Align(input.ImageAlign),
		}
		for _, image := range input.images {
			if image.uploadName != "" {
				ref, ok := uploads[image.uploadName]
				if !ok {
					return nil, models.NewValidationError(models.CodeInvalidSections,
						"section %d references image %q but no such file was uploaded", i, image.uploadName)
				}
				section.Images = append(section.Images, ref)
				continue
			}
			section.Images = append(section.Images, image.ref)
		}
		sections = append(sections, section)
	}
	return sections, nil
}
