package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/pkg/proverb"
)

var sample = []proverb.Proverb{
	{ID: 1, Proverb: "Àgbà kì í wà lọ́jà kí orí ọmọ tuntun wọ́", Translation: "An elder does not stay in the market and let a baby's head droop", Wisdom: "Elders carry responsibility."},
	{ID: 2, Proverb: "Ilé ọba tó jó, ẹwà ló bù kún un", Translation: "The burnt palace gains beauty", Wisdom: "Setbacks can renew."},
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("yaml"))
	assert.NotEqual(t, Format("auto"), DetectFormat("auto"))
}

func TestProverbsToData(t *testing.T) {
	d := ProverbsToData(sample, false)
	assert.Equal(t, []string{"ID", "Proverb", "Translation"}, d.Headers)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "2", d.Rows[1][0])

	wide := ProverbsToData(sample, true)
	assert.Equal(t, "Wisdom", wide.Headers[3])
	assert.Equal(t, "Setbacks can renew.", wide.Rows[1][3])
	assert.Len(t, wide.ColumnAlignment, 4)
}

func TestProverbToData(t *testing.T) {
	fav := true
	d := ProverbToData(sample[0], &fav)
	require.Len(t, d.Rows, 5)
	assert.Equal(t, []string{"Favorite", "★"}, d.Rows[4])

	assert.Len(t, ProverbToData(sample[0], nil).Rows, 4)
}

func TestWriteProverbs(t *testing.T) {
	t.Run("json keeps field names", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProverbs(&buf, FormatJSON, sample))
		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, sample[0].Proverb, got[0]["proverb"])
	})

	t.Run("empty json is a list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProverbs(&buf, FormatJSON, nil))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProverbs(&buf, FormatYAML, sample))
		var got []proverb.Proverb
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sample, got)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteProverbs(&buf, FormatTable, sample))
		assert.Contains(t, strings.ToUpper(buf.String()), "TRANSLATION")
		assert.Contains(t, buf.String(), "The burnt palace gains beauty")
	})
}

func TestTableFormatterReflection(t *testing.T) {
	type row struct {
		Email string `json:"email"`
		Name  string `json:"full_name,omitempty"`
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []row{{Email: "a@b.co", Name: "Adé"}}))
	assert.Contains(t, strings.ToUpper(buf.String()), "FULL NAME")
	assert.Contains(t, buf.String(), "a@b.co")
}
