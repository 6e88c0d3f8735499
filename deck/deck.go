// Package deck mutates pptx proposal decks: scope placeholder rewriting,
// name-token replacement, package-column pruning and hero image
// insertion. Shapes are edited in place through the presentationml shape
// tree so untouched formatting survives byte for byte.
package deck

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/unidoc/unioffice/presentation"
)

// Deck wraps an open presentation.
type Deck struct {
	prs *presentation.Presentation
	log *slog.Logger
}

// Open loads a pptx file from disk. A nil logger falls back to
// slog.Default.
func Open(path string, log *slog.Logger) (*Deck, error) {
	if log == nil {
		log = slog.Default()
	}
	prs, err := presentation.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck %q: %w", path, err)
	}
	return &Deck{prs: prs, log: log}, nil
}

// Read loads a pptx document from memory.
func Read(data []byte, log *slog.Logger) (*Deck, error) {
	if log == nil {
		log = slog.Default()
	}
	prs, err := presentation.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return &Deck{prs: prs, log: log}, nil
}

// Bytes serializes the deck.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.prs.Save(&buf); err != nil {
		return nil, fmt.Errorf("serialize deck: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTo writes the deck to disk.
func (d *Deck) SaveTo(path string) error {
	if err := d.prs.SaveToFile(path); err != nil {
		return fmt.Errorf("save deck %q: %w", path, err)
	}
	return nil
}

// SlideCount returns the number of slides.
func (d *Deck) SlideCount() int {
	return len(d.prs.Slides())
}

func (d *Deck) slide(idx int) (presentation.Slide, error) {
	slides := d.prs.Slides()
	if idx < 0 || idx >= len(slides) {
		return presentation.Slide{}, fmt.Errorf("slide %d out of range, deck has %d", idx, len(slides))
	}
	return slides[idx], nil
}

// Normalize reduces shape text for matching: uppercase, every run of
// non-alphanumerics collapsed to one space. Placeholder comparisons are
// always exact on the normalized form, never substring based.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
