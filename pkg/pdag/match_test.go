package pdag

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/lognorm/lognorm/pkg/fields"
	"github.com/lognorm/lognorm/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_Simple(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"sshd"}, "Accepted password for %user:word% from %ip:ipv4%"))

	rec, err := g.Match("Accepted password for alice from 10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"sshd"}, rec.Tags())
	user, _ := rec.AsString("user")
	assert.Equal(t, "alice", user)
	ip, _ := rec.AsString("ip")
	assert.Equal(t, "10.0.0.5", ip)
}

func TestMatch_NoMatch(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"t"}, "hello %who:word%"))

	_, err := g.Match("goodbye world")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatch_FullConsumptionRequired(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"t"}, "count=%n:number%"))

	rec, err := g.Match("count=42")
	require.NoError(t, err)
	n, _ := rec.AsInt("n")
	assert.Equal(t, int64(42), n)

	// Trailing unmatched characters fail the whole match.
	_, err = g.Match("count=42 trailing")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatch_Determinism(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"w"}, "val %v:word%"))
	require.NoError(t, g.Compile([]string{"n"}, "val %v:number%"))
	require.NoError(t, g.Compile([]string{"r"}, "val %v:rest%"))

	first, err := g.Match("val 42")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		rec, err := g.Match("val 42")
		require.NoError(t, err)
		assert.Equal(t, first, rec)
	}
}

func TestMatch_PriorityOrdering(t *testing.T) {
	g := newGraph(t)
	// Declared lower-priority first to prove ordering is by priority, not declaration.
	require.NoError(t, g.Compile([]string{"as-word"}, "val %v:word%"))
	require.NoError(t, g.Compile([]string{"as-number"}, "val %v:number%"))

	rec, err := g.Match("val 42")
	require.NoError(t, err)
	assert.Equal(t, []string{"as-number"}, rec.Tags(), "number outranks word")
	n, _ := rec.AsInt("v")
	assert.Equal(t, int64(42), n)

	rec, err = g.Match("val abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"as-word"}, rec.Tags(), "word is the fallback when number does not apply")
}

func TestMatch_DeclarationOrderBreaksTies(t *testing.T) {
	g := newGraph(t)
	// Same type and priority, different field names: declaration order decides.
	require.NoError(t, g.Compile([]string{"first"}, "id %a:word%"))
	require.NoError(t, g.Compile([]string{"second"}, "id %b:word%"))

	rec, err := g.Match("id xyz")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, rec.Tags())
	a, ok := rec.AsString("a")
	assert.True(t, ok)
	assert.Equal(t, "xyz", a)
	assert.False(t, rec.HasField("b"))
}

func TestMatch_Backtracking(t *testing.T) {
	g := newGraph(t)
	// word outranks char-to and greedily consumes "abc-tail", starving the
	// literal suffix; the match must back off and succeed via char-to.
	require.NoError(t, g.Compile([]string{"greedy"}, "%v:word%-tail"))
	require.NoError(t, g.Compile([]string{"lazy"}, "%v:char-to:-%-tail"))

	rec, err := g.Match("abc-tail")
	require.NoError(t, err)
	assert.Equal(t, []string{"lazy"}, rec.Tags())
	v, _ := rec.AsString("v")
	assert.Equal(t, "abc", v)
}

func TestMatch_BacktrackingDiscardsCaptures(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"greedy"}, "%dead:word%-tail"))
	require.NoError(t, g.Compile([]string{"lazy"}, "%live:char-to:-%-tail"))

	rec, err := g.Match("abc-tail")
	require.NoError(t, err)
	assert.False(t, rec.HasField("dead"), "Values from abandoned branches must not leak into the result")
	live, _ := rec.AsString("live")
	assert.Equal(t, "abc", live)
}

func TestMatch_UnnamedFieldsNotRecorded(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"t"}, "%-:word% %user:word%"))

	rec, err := g.Match("ignored alice")
	require.NoError(t, err)
	user, _ := rec.AsString("user")
	assert.Equal(t, "alice", user)
	assert.Equal(t, 2, len(rec), "Only the named field and the tags")
}

func TestMatch_RulePrefixOfAnotherRule(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"short"}, "shutdown"))
	require.NoError(t, g.Compile([]string{"long"}, "shutdown now"))

	rec, err := g.Match("shutdown")
	require.NoError(t, err)
	assert.Equal(t, []string{"short"}, rec.Tags())
	rec, err = g.Match("shutdown now")
	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, rec.Tags())
}

type explodingParser struct{}

func (explodingParser) Parse(line string, off int) (int, any, error) {
	return 0, nil, errors.New("boom")
}

func TestMatch_FatalParserError(t *testing.T) {
	reg := fields.DefaultRegistry()
	reg.Register(fields.Type{
		Name:     "explode",
		Priority: 200,
		New: func(params []string) (fields.Parser, error) {
			return explodingParser{}, nil
		},
	})
	g := New(hclog.NewNullLogger(), reg)
	require.NoError(t, g.Compile([]string{"t"}, "%v:explode%"))

	_, err := g.Match("anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch, "Fatal parser errors are distinct from NoMatch")
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "explode")
}

func TestMatch_StructuredJSONField(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"app"}, "event: %payload:json:skipempty%"))

	rec, err := g.Match(`event: {"a":"","b":"x"}`)
	require.NoError(t, err)
	payload, ok := rec.AsMap("payload")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"b": "x"}, payload)

	// A wholly-pruned payload means the json edge does not apply, and nothing else does either.
	_, err = g.Match(`event: {"message":""}`)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatch_EmptyLine(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"empty"}, "%-:rest%"))

	rec, err := g.Match("")
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, rec.Tags())
}

func TestMatch_ConcurrentUse(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Compile([]string{"n"}, "val %v:number%"))
	require.NoError(t, g.Compile([]string{"w"}, "val %v:word%"))

	done := make(chan record.Record, 8)
	for i := 0; i < 8; i++ {
		go func() {
			var last record.Record
			for j := 0; j < 200; j++ {
				rec, err := g.Match("val 42")
				if err != nil {
					done <- nil
					return
				}
				last = rec
			}
			done <- last
		}()
	}
	for i := 0; i < 8; i++ {
		rec := <-done
		require.NotNil(t, rec)
		assert.Equal(t, []string{"n"}, rec.Tags())
	}
}
