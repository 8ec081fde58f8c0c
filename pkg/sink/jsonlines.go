// Package sink consumes record iterators: a JSON-lines writer and a SQLite store.
// Sinks drain their iterator on error to prevent upstream blocking.
package sink

import (
	"encoding/json"
	"io"

	"github.com/lognorm/lognorm/pkg/iterator"
	"github.com/lognorm/lognorm/pkg/record"
)

// JSONLines writes each record to w as a single-line JSON document.
// In case of an error, the iterator is drained to prevent upstream blocking.
func JSONLines(iter iterator.Iterator, w io.Writer) error {
	err := iter.Iterate(func(rec record.Record, _ int) error {
		data, err := json.Marshal(rec)
		if err != nil {
			// Shouldn't ever happen, given the data type.
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	})
	if err != nil {
		iterator.Drain(iter)
		return err
	}
	return nil
}
