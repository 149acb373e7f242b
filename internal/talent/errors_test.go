package talent

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingInputError(t *testing.T) {
	t.Run("missing column names the identifier", func(t *testing.T) {
		err := NewMissingColumn("pitch_events", "plate_x")
		assert.Contains(t, err.Error(), "pitch_events")
		assert.Contains(t, err.Error(), "plate_x")
		assert.True(t, IsMissingInput(err))
	})

	t.Run("missing table wraps the cause", func(t *testing.T) {
		cause := os.ErrNotExist
		err := NewMissingTable("park_factors", cause)
		assert.Contains(t, err.Error(), "park_factors")
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load inputs: %w", NewMissingColumn("batting_stats", "wOBA"))
		assert.True(t, IsMissingInput(wrapped))

		var miss *MissingInputError
		require.ErrorAs(t, wrapped, &miss)
		assert.Equal(t, "batting_stats", miss.Table)
		assert.Equal(t, "wOBA", miss.Missing)
	})

	t.Run("other errors are not missing input", func(t *testing.T) {
		assert.False(t, IsMissingInput(errors.New("arithmetic oddity")))
		assert.False(t, IsMissingInput(nil))
	})
}
