// Package source produces the raw lines fed to the matcher: plain readers,
// whole files, and tailed files that follow growth and rotation.
package source

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/nxadm/tail"
)

// Line is one raw input line with read metadata.
type Line struct {
	Text string
	Num  int
	Time time.Time
}

// Reader emits each line of r on the returned channel until EOF or context cancellation.
// The channel is closed when input is exhausted.
func Reader(ctx context.Context, r io.Reader) <-chan Line {
	ch := make(chan Line)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		num := 0
		for scanner.Scan() {
			num++
			line := Line{Text: scanner.Text(), Num: num, Time: time.Now()}
			select {
			case <-ctx.Done():
				return
			case ch <- line:
			}
		}
	}()
	return ch
}

// File emits each line of the named file, closing the channel at EOF.
func File(ctx context.Context, filename string) (<-chan Line, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	inner := Reader(ctx, f)
	ch := make(chan Line)
	go func() {
		defer close(ch)
		defer func() {
			_ = f.Close()
		}()
		for line := range inner {
			ch <- line
		}
	}()
	return ch, nil
}

// Tail follows the named file for new lines, reopening it if it is rotated.
// The channel closes when the context is cancelled.
func Tail(ctx context.Context, filename string) (<-chan Line, error) {
	t, err := tail.TailFile(filename, tail.Config{
		ReOpen:    true,
		MustExist: true,
		Follow:    true,
	})
	if err != nil {
		return nil, err
	}
	ch := make(chan Line)
	go func() {
		defer close(ch)
		defer func() {
			_ = t.Stop()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				ch <- Line{Text: l.Text, Num: l.Num, Time: l.Time}
			}
		}
	}()
	return ch, nil
}
