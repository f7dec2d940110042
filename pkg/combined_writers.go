package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter duplicates every write to all of its writers, like a tee
// that keeps going when one of the targets fails.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{writers: writers}
}

// Write reports len(p) written; failures of individual writers are joined
// into the returned error.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	for _, w := range cw.writers {
		n, werr := w.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		err = multierr.Append(err, werr)
	}
	return len(p), err
}
