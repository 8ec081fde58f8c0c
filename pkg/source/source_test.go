package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	ch := Reader(context.Background(), strings.NewReader("one\ntwo\nthree\n"))
	var lines []Line
	for line := range ch {
		lines = append(lines, line)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, "one", lines[0].Text)
	assert.Equal(t, 1, lines[0].Num)
	assert.Equal(t, "three", lines[2].Text)
	assert.Equal(t, 3, lines[2].Num)
}

func TestReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := Reader(ctx, strings.NewReader("one\ntwo\n"))
	var count int
	for range ch {
		count++
	}
	assert.LessOrEqual(t, count, 1, "Cancellation stops the pump")
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0600))

	ch, err := File(context.Background(), path)
	require.NoError(t, err)
	var lines []string
	for line := range ch {
		lines = append(lines, line.Text)
	}
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
}

func TestTail_MissingFile(t *testing.T) {
	_, err := Tail(context.Background(), filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err, "MustExist is set")
}
