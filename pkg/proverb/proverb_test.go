package proverb_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/proverb"
)

func TestDecode(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		p, err := proverb.Decode(strings.NewReader(`{"id":5,"proverb":"Àgbà kì í wà lọ́jà","translation":"An elder","wisdom":"Elders matter","extra":true}`), "/proverb")
		require.NoError(t, err)
		assert.Equal(t, 5, p.ID)
		assert.Equal(t, "An elder", p.Translation)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := proverb.Decode(strings.NewReader(`{"proverb":"x"}`), "/proverb")
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("non positive id", func(t *testing.T) {
		_, err := proverb.DecodeBytes([]byte(`{"id":0,"proverb":"x"}`), "/proverb")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("empty proverb text", func(t *testing.T) {
		_, err := proverb.DecodeBytes([]byte(`{"id":3,"proverb":"  "}`), "/proverb")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := proverb.DecodeBytes([]byte(`{"id":"three","proverb":"x"}`), "/proverb")
		var pe *errors.ParseError
		assert.True(t, errors.As(err, &pe))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := proverb.DecodeBytes([]byte(`<html>`), "/proverb")
		var pe *errors.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "/proverb", pe.Source)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := proverb.DecodeBytes([]byte(`{"id":1,"proverb":"x"} {"id":2}`), "/proverb")
		assert.Error(t, err)
	})
}

func TestUnmarshalCollection(t *testing.T) {
	var list []proverb.Proverb
	err := json.Unmarshal([]byte(`[{"id":1,"proverb":"a"},{"id":2,"proverb":"b","wisdom":"w"}]`), &list)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "w", list[1].Wisdom)

	err = json.Unmarshal([]byte(`[{"id":1,"proverb":"a"},{"proverb":"b"}]`), &list)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		p     proverb.Proverb
		field string
	}{
		{name: "zero value", p: proverb.Proverb{}, field: "id"},
		{name: "negative id", p: proverb.Proverb{ID: -2, Proverb: "x"}, field: "id"},
		{name: "missing text", p: proverb.Proverb{ID: 3}, field: "proverb"},
		{name: "blank text", p: proverb.Proverb{ID: 3, Proverb: " \t"}, field: "proverb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *errors.ValidationError
			require.True(t, errors.As(tt.p.Validate(), &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, proverb.Proverb{ID: 1, Proverb: "x"}.Validate())
}

func TestNormalize(t *testing.T) {
	decomposed := "o\u0323\u0300"
	p := proverb.Proverb{ID: 1, Proverb: " " + decomposed + " "}.Normalize()
	assert.Equal(t, "\u1ecd\u0300", p.Proverb)
}

func TestText(t *testing.T) {
	p := proverb.Proverb{ID: 1, Proverb: "P", Translation: "T", Wisdom: "W"}
	assert.Equal(t, "Proverb: P\nTranslation: T\nWisdom: W", p.Text())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "yoruba-proverb-42.png", proverb.Proverb{ID: 42}.FileName())
	assert.Equal(t, "yoruba-proverb-image.png", proverb.Proverb{}.FileName())
}

func TestPermalink(t *testing.T) {
	p := proverb.Proverb{ID: 9}
	assert.Equal(t, "https://example.com/proverb/9", p.Permalink("https://example.com/"))
}

func TestMatches(t *testing.T) {
	p := proverb.Proverb{ID: 1, Proverb: "Ọ̀rọ̀ púpọ̀", Translation: "Many words", Wisdom: "Talk less"}
	assert.True(t, p.Matches("oro"))
	assert.True(t, p.Matches("PUPO"))
	assert.True(t, p.Matches("talk"))
	assert.True(t, p.Matches(""))
	assert.False(t, p.Matches("silence"))
}

func TestParseID(t *testing.T) {
	id, err := proverb.ParseID(" 17 ")
	require.NoError(t, err)
	assert.Equal(t, 17, id)

	_, err = proverb.ParseID("")
	assert.ErrorIs(t, err, proverb.ErrMissingID)

	_, err = proverb.ParseID("abc")
	assert.True(t, errors.IsValidationError(err))

	_, err = proverb.ParseID("-3")
	assert.True(t, errors.IsValidationError(err))
}
