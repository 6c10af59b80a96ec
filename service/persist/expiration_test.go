package persist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpirationIsExpired(t *testing.T) {
	t.Run("never", func(t *testing.T) {
		assert.False(t, ExpirationNever().IsExpired(1<<40, 1<<40))
	})

	t.Run("height boundary is inclusive", func(t *testing.T) {
		e := ExpirationAtHeight(100)
		assert.False(t, e.IsExpired(99, 0))
		assert.False(t, e.IsExpired(100, 0))
		assert.True(t, e.IsExpired(101, 0))
	})

	t.Run("time boundary is inclusive", func(t *testing.T) {
		e := ExpirationAtTime(1_000_000)
		assert.False(t, e.IsExpired(0, 1_000_000))
		assert.True(t, e.IsExpired(0, 1_000_001))
	})

	t.Run("a height expiration ignores time", func(t *testing.T) {
		e := ExpirationAtHeight(100)
		assert.False(t, e.IsExpired(100, 1<<40))
	})
}

func TestExpirationJSON(t *testing.T) {
	t.Run("never round trips as a string", func(t *testing.T) {
		b, err := json.Marshal(ExpirationNever())
		require.NoError(t, err)
		assert.JSONEq(t, `"never"`, string(b))

		var e Expiration
		require.NoError(t, json.Unmarshal([]byte(`"never"`), &e))
		assert.False(t, e.IsExpired(1<<40, 1<<40))
	})

	t.Run("at_height round trips as an object", func(t *testing.T) {
		b, err := json.Marshal(ExpirationAtHeight(42))
		require.NoError(t, err)
		assert.JSONEq(t, `{"at_height":42}`, string(b))

		var e Expiration
		require.NoError(t, json.Unmarshal(b, &e))
		assert.Equal(t, ExpirationAtHeight(42).String(), e.String())
	})

	t.Run("at_time round trips as an object", func(t *testing.T) {
		var e Expiration
		require.NoError(t, json.Unmarshal([]byte(`{"at_time":1000}`), &e))
		assert.True(t, e.IsExpired(0, 1001))
	})

	t.Run("rejects both bounds at once", func(t *testing.T) {
		var e Expiration
		err := json.Unmarshal([]byte(`{"at_height":1,"at_time":1}`), &e)
		assert.Error(t, err)
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		var e Expiration
		err := json.Unmarshal([]byte(`"forever"`), &e)
		assert.Error(t, err)
	})
}
