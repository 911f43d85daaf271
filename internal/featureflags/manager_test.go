package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_Enabled(t *testing.T) {
	t.Parallel()

	t.Run("on and off values", func(t *testing.T) {
		t.Parallel()
		m := NewManager("mention_emails=on,popular_sort=off,beta=true,Legacy=FALSE")

		assert.True(t, m.Enabled("mention_emails", 1, false))
		assert.False(t, m.Enabled("popular_sort", 1, true))
		assert.True(t, m.Enabled("beta", 1, false))
		assert.False(t, m.Enabled("legacy", 1, true))
	})

	t.Run("unset flag uses fallback", func(t *testing.T) {
		t.Parallel()
		m := NewManager("mention_emails=on")
		assert.True(t, m.Enabled("missing", 1, true))
		assert.False(t, m.Enabled("missing", 1, false))
	})

	t.Run("nil manager uses fallback", func(t *testing.T) {
		t.Parallel()
		var m *Manager
		assert.True(t, m.Enabled("anything", 1, true))
		assert.False(t, m.Enabled("anything", 1, false))
	})

	t.Run("percentage rollout is deterministic per user", func(t *testing.T) {
		t.Parallel()
		m := NewManager("rollout=50%")
		for userID := uint(1); userID <= 20; userID++ {
			first := m.Enabled("rollout", userID, false)
			second := m.Enabled("rollout", userID, false)
			assert.Equal(t, first, second)
		}
	})

	t.Run("boundary percentages", func(t *testing.T) {
		t.Parallel()
		all := NewManager("rollout=100%")
		none := NewManager("rollout=0%")
		for userID := uint(1); userID <= 10; userID++ {
			assert.True(t, all.Enabled("rollout", userID, false))
			assert.False(t, none.Enabled("rollout", userID, true))
		}
	})

	t.Run("malformed pairs are skipped", func(t *testing.T) {
		t.Parallel()
		m := NewManager("garbage,=,novalue=,mention_emails=on")
		assert.True(t, m.Enabled("mention_emails", 1, false))
		assert.False(t, m.Enabled("garbage", 1, false))
	})

	t.Run("unknown value uses fallback", func(t *testing.T) {
		t.Parallel()
		m := NewManager("rollout=maybe")
		assert.True(t, m.Enabled("rollout", 1, true))
	})
}
