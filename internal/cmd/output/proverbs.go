package output

import (
	"io"
	"strconv"

	"github.com/agentstation/proverbs/internal/cmd/emoji"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// ProverbToData lays one proverb out as a property table. The favorite
// column is omitted when isFavorite is nil.
func ProverbToData(p proverb.Proverb, isFavorite *bool) Data {
	rows := [][]string{
		{"ID", strconv.Itoa(p.ID)},
		{"Proverb", p.Proverb},
		{"Translation", p.Translation},
		{"Wisdom", p.Wisdom},
	}
	if isFavorite != nil {
		mark := emoji.NotFavorite
		if *isFavorite {
			mark = emoji.Favorite
		}
		rows = append(rows, []string{"Favorite", mark})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// ProverbsToData lays a collection out one proverb per row. Wide output
// adds the wisdom column.
func ProverbsToData(list []proverb.Proverb, wide bool) Data {
	headers := []string{"ID", "Proverb", "Translation"}
	if wide {
		headers = append(headers, "Wisdom")
	}

	rows := make([][]string, 0, len(list))
	for _, p := range list {
		row := []string{strconv.Itoa(p.ID), p.Proverb, p.Translation}
		if wide {
			row = append(row, p.Wisdom)
		}
		rows = append(rows, row)
	}

	align := make([]Align, len(headers))
	align[0] = AlignRight
	for i := 1; i < len(align); i++ {
		align[i] = AlignLeft
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// WriteProverb writes one proverb in format.
func WriteProverb(w io.Writer, format Format, p proverb.Proverb, isFavorite *bool) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, p)
	default:
		return NewFormatter(format).Format(w, ProverbToData(p, isFavorite))
	}
}

// WriteProverbs writes a collection in format. Structured formats always
// produce a list, empty or not.
func WriteProverbs(w io.Writer, format Format, list []proverb.Proverb) error {
	switch format {
	case FormatJSON, FormatYAML:
		if list == nil {
			list = []proverb.Proverb{}
		}
		return NewFormatter(format).Format(w, list)
	default:
		return NewFormatter(format).Format(w, ProverbsToData(list, format == FormatWide))
	}
}
