// Package proverb defines the Proverb record served by the proverb API and
// the strict decoder used at every I/O boundary that produces one.
package proverb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
)

// Proverb is a Yoruba proverb with its English translation and explanation.
// Values are immutable once fetched.
type Proverb struct {
	ID          int    `json:"id" yaml:"id"`
	Proverb     string `json:"proverb" yaml:"proverb"`
	Translation string `json:"translation" yaml:"translation"`
	Wisdom      string `json:"wisdom" yaml:"wisdom"`
}

// wire mirrors Proverb with pointer fields so missing keys can be told
// apart from zero values.
type wire struct {
	ID          *int    `json:"id"`
	Proverb     *string `json:"proverb"`
	Translation *string `json:"translation"`
	Wisdom      *string `json:"wisdom"`
}

// Decode reads a single proverb object from r and validates it.
// source names the origin (endpoint or key) for error messages.
func Decode(r io.Reader, source string) (Proverb, error) {
	var w wire
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return Proverb{}, errors.WrapParse("json", source, err)
	}
	if dec.More() {
		return Proverb{}, errors.NewParseError("json", source, "trailing data after proverb object", nil)
	}
	return w.toProverb()
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte, source string) (Proverb, error) {
	return Decode(bytes.NewReader(data), source)
}

func (w wire) toProverb() (Proverb, error) {
	if w.ID == nil {
		return Proverb{}, errors.NewValidationError("id", nil, "is required")
	}
	if w.Proverb == nil {
		return Proverb{}, errors.NewValidationError("proverb", nil, "is required")
	}
	p := Proverb{ID: *w.ID, Proverb: *w.Proverb}
	if w.Translation != nil {
		p.Translation = *w.Translation
	}
	if w.Wisdom != nil {
		p.Wisdom = *w.Wisdom
	}
	if err := p.Validate(); err != nil {
		return Proverb{}, err
	}
	return p.Normalize(), nil
}

// Validate reports whether p would survive a decode. Anything stored or
// sent must pass it, otherwise the collection holding p fails to load.
func (p Proverb) Validate() error {
	if p.ID <= 0 {
		return errors.NewValidationError("id", p.ID, "must be positive")
	}
	if strings.TrimSpace(p.Proverb) == "" {
		return errors.NewValidationError("proverb", nil, "is required")
	}
	return nil
}

// UnmarshalJSON applies the same validation as Decode so that collections
// of proverbs are checked element by element.
func (p *Proverb) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := w.toProverb()
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Normalize returns a copy with all text fields in Unicode NFC. Yoruba tone
// marks arrive both precomposed and as combining sequences.
func (p Proverb) Normalize() Proverb {
	p.Proverb = norm.NFC.String(strings.TrimSpace(p.Proverb))
	p.Translation = norm.NFC.String(strings.TrimSpace(p.Translation))
	p.Wisdom = norm.NFC.String(strings.TrimSpace(p.Wisdom))
	return p
}

// Text is the form placed on the clipboard.
func (p Proverb) Text() string {
	return fmt.Sprintf("Proverb: %s\nTranslation: %s\nWisdom: %s", p.Proverb, p.Translation, p.Wisdom)
}

// FileName is the exported image name for this proverb.
func (p Proverb) FileName() string {
	if p.ID == 0 {
		return constants.ImageFilePrefix + "image.png"
	}
	return constants.ImageFilePrefix + strconv.Itoa(p.ID) + ".png"
}

// Permalink returns the web page for this proverb under siteURL.
func (p Proverb) Permalink(siteURL string) string {
	return strings.TrimRight(siteURL, "/") + "/proverb/" + strconv.Itoa(p.ID)
}

// Matches reports whether query occurs in any text field, ignoring case and
// tone marks.
func (p Proverb) Matches(query string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	return strings.Contains(Fold(p.Proverb), q) ||
		strings.Contains(Fold(p.Translation), q) ||
		strings.Contains(Fold(p.Wisdom), q)
}

// Fold strips diacritics and case so "Ọ̀rọ̀" and "oro" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ParseID validates a user supplied identifier without touching the network.
func ParseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissingID
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", raw, "must be a positive integer")
	}
	return id, nil
}

// ErrMissingID is returned when an operation needs a proverb id and none was given.
var ErrMissingID = errors.NewValidationError("id", nil, "no proverb ID provided")
