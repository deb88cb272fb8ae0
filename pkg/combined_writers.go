package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers.
// A failing writer does not stop the others; errors are collected.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports the sum of bytes written by the successful writers.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		total int
		errs  error
	)
	for _, w := range cw.Writers {
		n, err := w.Write(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		total += n
	}
	return total, errs
}
