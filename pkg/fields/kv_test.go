package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameValueList(t *testing.T) {
	p := mustParser(t, "name-value-list")
	line := `src=10.0.0.1 dst=10.0.0.2 msg="hello world" trailing`
	n, v, err := p.Parse(line, 0)
	assert.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", m["src"])
	assert.Equal(t, "10.0.0.2", m["dst"])
	assert.Equal(t, "hello world", m["msg"])
	assert.Equal(t, len(`src=10.0.0.1 dst=10.0.0.2 msg="hello world"`), n, "Should stop before non-pair text")
}

func TestNameValueList_CustomSep(t *testing.T) {
	p := mustParser(t, "name-value-list", "sep=,")
	n, v, err := p.Parse("a=1,b=2,c=3", 0)
	assert.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, map[string]any{"a": "1", "b": "2", "c": "3"}, v)
}

func TestNameValueList_NoPairs(t *testing.T) {
	p := mustParser(t, "name-value-list")
	_, _, err := p.Parse("no pairs here", 0)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestNameValueList_Config(t *testing.T) {
	_, _, err := DefaultRegistry().New("name-value-list", []string{"bogus"})
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "bogus")
	_, _, err = DefaultRegistry().New("name-value-list", []string{"sep"})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestCEF(t *testing.T) {
	p := mustParser(t, "cef")
	line := `CEF:0|Security|threatmanager|1.0|100|worm successfully stopped|10|src=10.0.0.1 dst=2.1.2.2 msg=all is well`
	n, v, err := p.Parse(line, 0)
	assert.NoError(t, err)
	assert.Equal(t, len(line), n, "CEF consumes to end of line")
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Security", m["DeviceVendor"])
	assert.Equal(t, "threatmanager", m["DeviceProduct"])
	assert.Equal(t, "1.0", m["DeviceVersion"])
	assert.Equal(t, "100", m["SignatureID"])
	assert.Equal(t, "worm successfully stopped", m["Name"])
	assert.Equal(t, "10", m["Severity"])
	ext, ok := m["Extensions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", ext["src"])
	assert.Equal(t, "2.1.2.2", ext["dst"])
	assert.Equal(t, "all is well", ext["msg"], "Extension values may contain spaces")
}

func TestCEF_EscapedPipe(t *testing.T) {
	p := mustParser(t, "cef")
	line := `CEF:0|Ven\|dor|prod|1|2|name|3|`
	n, v, err := p.Parse(line, 0)
	assert.NoError(t, err)
	assert.Equal(t, len(line), n)
	m := v.(map[string]any)
	assert.Equal(t, "Ven|dor", m["DeviceVendor"])
}

func TestCEF_Rejects(t *testing.T) {
	p := mustParser(t, "cef")
	for _, line := range []string{"CEF:1|a|b|c|d|e|f|", "CEF:0|only|two", "not cef at all"} {
		_, _, err := p.Parse(line, 0)
		assert.ErrorIs(t, err, ErrNoMatch, line)
	}
}

func TestCiscoInterfaceSpec(t *testing.T) {
	p := mustParser(t, "cisco-interface-spec")
	line := "outside:10.0.0.1/443 (10.0.0.2/1025) (admin) rest"
	n, v, err := p.Parse(line, 0)
	assert.NoError(t, err)
	assert.Equal(t, len("outside:10.0.0.1/443 (10.0.0.2/1025) (admin)"), n)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "outside", m["interface"])
	assert.Equal(t, "10.0.0.1", m["ip"])
	assert.Equal(t, int64(443), m["port"])
	assert.Equal(t, "10.0.0.2", m["ip2"])
	assert.Equal(t, int64(1025), m["port2"])
	assert.Equal(t, "admin", m["user"])
}

func TestCiscoInterfaceSpec_Minimal(t *testing.T) {
	p := mustParser(t, "cisco-interface-spec")
	n, v, err := p.Parse("10.0.0.1/443 rest", 0)
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	m := v.(map[string]any)
	assert.Equal(t, "10.0.0.1", m["ip"])
	assert.Equal(t, int64(443), m["port"])
	assert.NotContains(t, m, "interface")
}

func TestCiscoInterfaceSpec_Rejects(t *testing.T) {
	p := mustParser(t, "cisco-interface-spec")
	for _, line := range []string{"outside:10.0.0.1", "10.0.0.1/99999", "nonsense"} {
		_, _, err := p.Parse(line, 0)
		assert.ErrorIs(t, err, ErrNoMatch, line)
	}
}
