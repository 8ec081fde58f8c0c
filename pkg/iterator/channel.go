package iterator

import (
	"errors"

	"github.com/lognorm/lognorm/pkg/record"
)

var _ Iterator = (*recordChannel)(nil)

type recordChannel struct {
	ch   <-chan record.Record
	next int
}

func (e *recordChannel) Next() (record.Record, int, error) {
	rec, ok := <-e.ch
	if !ok {
		return nil, -1, ErrStopIteration
	}
	cur := e.next
	e.next += 1
	return rec, cur, nil
}

func (e *recordChannel) Iterate(iter func(rec record.Record, i int) error) error {
	for {
		rec, i, err := e.Next()
		if err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}
		if err := iter(rec, i); err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}
	}
}
