package iterator

import (
	"errors"

	"github.com/lognorm/lognorm/pkg/record"
)

var _ Iterator = (*recordSlice)(nil)

type recordSlice struct {
	records []record.Record
	next    int
}

func (e *recordSlice) Next() (record.Record, int, error) {
	cur := e.next
	if len(e.records) > cur {
		e.next += 1
		return e.records[cur], cur, nil
	}
	return nil, -1, ErrStopIteration
}

func (e *recordSlice) Iterate(iter func(rec record.Record, i int) error) error {
	rec, i, err := e.Next()
	for ; err == nil; rec, i, err = e.Next() {
		rec := rec
		i := i
		err = iter(rec, i)
		if err != nil {
			break
		}
	}
	if errors.Is(err, ErrStopIteration) {
		return nil
	}
	return err
}
