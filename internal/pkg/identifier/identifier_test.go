package identifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserID(t *testing.T) {
	t.Run("always eight digits", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			id, err := NewUserID(nil)
			require.NoError(t, err)
			assert.Len(t, id, 8)
			assert.NotEqual(t, byte('0'), id[0])
		}
	})

	t.Run("retries on collision", func(t *testing.T) {
		calls := 0
		id, err := NewUserID(func(id string) bool {
			calls++
			return calls <= 3 // first three draws "taken"
		})
		require.NoError(t, err)
		assert.Len(t, id, 8)
		assert.Equal(t, 4, calls)
	})

	t.Run("gives up when the space is exhausted", func(t *testing.T) {
		_, err := NewUserID(func(string) bool { return true })
		assert.ErrorIs(t, err, ErrExhausted)
	})
}

func TestNewRecordID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123", NewRecordID(now))
}
