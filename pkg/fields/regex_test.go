package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegex(t *testing.T) {
	p := mustParser(t, "regex", `[a-z]+-\d+`)
	n, v, err := p.Parse("task-42 done", 0)
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "task-42", v)

	_, _, err = p.Parse("42-task", 0)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestRegex_AnchoredAtOffset(t *testing.T) {
	p := mustParser(t, "regex", `\d+`)
	// The expression must match at the offset, not merely somewhere after it.
	_, _, err := p.Parse("abc 123", 0)
	assert.ErrorIs(t, err, ErrNoMatch)

	n, v, err := p.Parse("abc 123", 4)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "123", v)
}

func TestRegex_ExpressionMayContainColons(t *testing.T) {
	// Parameters are rejoined, so ':' inside the expression survives the placeholder split.
	p := mustParser(t, "regex", `\d{2}`, `\d{2}`)
	n, v, err := p.Parse("12:34 rest", 0)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "12:34", v)
}

func TestRegex_Config(t *testing.T) {
	_, _, err := DefaultRegistry().New("regex", []string{`(unclosed`})
	assert.ErrorIs(t, err, ErrConfig)
	_, _, err = DefaultRegistry().New("regex", nil)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestGrok(t *testing.T) {
	p := mustParser(t, "grok", `%{WORD:verb} %{NUMBER:code}`)
	n, v, err := p.Parse("GET 200", 0)
	assert.NoError(t, err)
	assert.Equal(t, 7, n, "Grok consumes the whole remainder")
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GET", m["verb"])
	assert.Equal(t, "200", m["code"])

	_, _, err = p.Parse("GET 200 extra", 0)
	assert.ErrorIs(t, err, ErrNoMatch, "Pattern is anchored to the full remainder")
}

func TestGrok_Config(t *testing.T) {
	_, _, err := DefaultRegistry().New("grok", []string{`%{NOSUCHPATTERN:x}`})
	assert.ErrorIs(t, err, ErrConfig)
	_, _, err = DefaultRegistry().New("grok", nil)
	assert.ErrorIs(t, err, ErrConfig)
}
