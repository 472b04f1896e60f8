package resilience

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(eris.New("validation failed")))

	marked := MarkTransient(eris.New("upstream 502"), 502)
	assert.True(t, IsTransient(marked))
	assert.True(t, IsTransient(eris.Wrap(marked, "fetch: attempt")))

	// Flattened client-error messages are still recognized.
	assert.True(t, IsTransient(eris.New("request failed: read tcp: i/o timeout")))
	assert.True(t, IsTransient(eris.New("dial tcp: lookup example.invalid: no such host")))
}

func TestTransientStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, TransientStatus(status), status)
	}
	for _, status := range []int{200, 301, 400, 403, 404, 422} {
		assert.False(t, TransientStatus(status), status)
	}
}
