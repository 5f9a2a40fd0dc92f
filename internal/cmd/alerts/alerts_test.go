package alerts

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/internal/cmd/output"
	"github.com/agentstation/proverbs/pkg/notifier"
)

func TestFromNotifier(t *testing.T) {
	assert.Equal(t, LevelSuccess, FromNotifier(notifier.LevelSuccess))
	assert.Equal(t, LevelInfo, FromNotifier(notifier.LevelInfo))
	assert.Equal(t, LevelError, FromNotifier(notifier.LevelError))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "level(9)", Level(9).String())
	assert.Equal(t, "?", Level(9).Icon())
	assert.True(t, LevelInfo.Quiet())
	assert.False(t, LevelWarning.Quiet())
}

func TestAlertString(t *testing.T) {
	a := New(LevelError, "Failed to copy proverb.").WithError(errors.New("no clipboard"))
	assert.Equal(t, "✗ Failed to copy proverb.: no clipboard", a.String())

	// Context lines are not part of the headline.
	a = New(LevelSuccess, "Proverb image downloaded!").ForProverb(12).WithPath("/tmp/yoruba-proverb-12.png")
	assert.Equal(t, "✓ Proverb image downloaded!", a.String())
}

func TestWriter(t *testing.T) {
	saved := func() *Alert {
		return New(LevelWarning, "Sharing unavailable, image saved.").
			ForProverb(12).
			WithPath("/tmp/yoruba-proverb-12.png")
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, output.FormatTable).Write(saved()))
		assert.Equal(t, "! Sharing unavailable, image saved.\n   proverb: 12\n   path: /tmp/yoruba-proverb-12.png\n", buf.String())
	})

	t.Run("plain field", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, output.FormatTable).Write(New(LevelWarning, "Name is required").WithField("name")))
		assert.Equal(t, "! Name is required\n   field: name\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, output.FormatJSON).Write(saved()))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "warning", got["level"])
		assert.Equal(t, float64(12), got["proverb_id"])
		assert.Equal(t, "/tmp/yoruba-proverb-12.png", got["path"])
		assert.NotContains(t, got, "field")
		assert.NotContains(t, got, "error")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(&buf, output.FormatYAML)
		require.NoError(t, w.Write(New(LevelSuccess, "Added to favorites!")))
		require.NoError(t, w.Write(New(LevelError, "Failed to save favorites.").ForProverb(4).WithError(errors.New("disk full"))))

		docs := bytes.Split(bytes.TrimPrefix(buf.Bytes(), []byte("---\n")), []byte("---\n"))
		require.Len(t, docs, 2)
		var first, second alertRecord
		require.NoError(t, yaml.Unmarshal(docs[0], &first))
		require.NoError(t, yaml.Unmarshal(docs[1], &second))
		assert.Equal(t, alertRecord{Level: "success", Message: "Added to favorites!"}, first)
		assert.Equal(t, alertRecord{Level: "error", Message: "Failed to save favorites.", ProverbID: 4, Error: "disk full"}, second)
	})

	t.Run("color", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(&buf, output.FormatTable).WithColor(true)
		require.NoError(t, w.Write(New(LevelSuccess, "ok").ForProverb(1)))
		assert.Equal(t, "\033[32m✓ ok\033[0m\n   proverb: 1\n", buf.String())
	})
}
