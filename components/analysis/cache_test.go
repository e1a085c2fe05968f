package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkupCacheStoresEntry(t *testing.T) {
	cache := NewMarkupCache(10 * time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
}

func TestMarkupCacheExpires(t *testing.T) {
	cache := NewMarkupCache(2 * time.Millisecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestMarkupCacheZeroTTLDisables(t *testing.T) {
	cache := NewMarkupCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "v", nil
	}

	_, _ = cache.GetOrRender("key", render)
	_, _ = cache.GetOrRender("key", render)
	assert.Equal(t, 2, calls)
}

func TestSpecHashDeterministic(t *testing.T) {
	a := specHash(barSpec())
	b := specHash(barSpec())
	assert.Equal(t, a, b)

	changed := barSpec()
	changed.Title = "Other"
	assert.NotEqual(t, a, specHash(changed))
}
