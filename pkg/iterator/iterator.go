// Package iterator provides iteration over streams of record.Record,
// backing the sources and sinks of the normalization pipeline.
package iterator

import (
	"context"
	"errors"

	"github.com/lognorm/lognorm/pkg/record"
	"golang.org/x/sync/semaphore"
)

var (
	ErrStopIteration = errors.New("stop iterating")
)

type Iterator interface {
	// Next returns the next Record and its offset in the stream.
	// May return ErrStopIteration if the end of the stream is reached.
	Next() (record.Record, int, error)
	// Iterate will progress through all Record items in the stream, calling iter for each one along with the offset.
	// If iter returns ErrStopIteration, then iteration will cease, returning nil.
	// If any other error is returned, then iteration will cease, and the error will be returned.
	Iterate(iter func(rec record.Record, i int) error) error
}

func FromSlice(recs []record.Record) Iterator {
	return &recordSlice{records: recs}
}

func FromChannel(recs <-chan record.Record) Iterator {
	return &recordChannel{ch: recs}
}

func AsChannel(iter Iterator) <-chan record.Record {
	if chi, ok := iter.(*recordChannel); ok {
		return chi.ch
	}
	if chs, ok := iter.(*recordSlice); ok {
		ch := make(chan record.Record, len(chs.records))
		defer close(ch)
		for i := 0; i < len(chs.records); i++ {
			ch <- chs.records[i]
		}
		return ch
	}
	ch := make(chan record.Record)
	go func() {
		defer close(ch)
		_ = iter.Iterate(func(rec record.Record, i int) error {
			ch <- rec
			return nil
		})
	}()
	return ch
}

// Dupe will take control of and branch the duplicate Iterator into two identical Iterators.
// Any Record posted to the source Iterator will be sent to both of the new Iterators.
// This is useful in a case similar to when you want to print records as well as write them to a store.
// It's not advised to read from an Iterator that has been passed to Dupe, use one of the returned Iterators instead.
func Dupe(iter Iterator) (Iterator, Iterator) {
	if iter == nil {
		ch := make(chan record.Record)
		close(ch)
		return FromChannel(ch), FromChannel(ch)
	}

	a := make(chan record.Record)
	b := make(chan record.Record)
	aiter := FromChannel(a)
	biter := FromChannel(b)

	go func() {
		sem := semaphore.NewWeighted(2)
		ctx := context.Background()

		defer func() {
			_ = sem.Acquire(ctx, 2)
			close(a)
			close(b)
		}()
		_ = iter.Iterate(func(rec record.Record, i int) error {
			_ = sem.Acquire(ctx, 1)
			go func() {
				defer sem.Release(1)
				a <- rec
			}()
			_ = sem.Acquire(ctx, 1)
			go func() {
				defer sem.Release(1)
				b <- rec
			}()
			return nil
		})
	}()
	return aiter, biter
}

// Drain will drain all records from an Iterator in a new goroutine.
// This can be useful as an error fallback in case of an iteration error to prevent upstream blocking.
func Drain(iter Iterator) {
	ch := AsChannel(iter)
	go func() {
		for range ch {
		}
	}()
}
