package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter decouples log producers from sink latency: records are
// queued and a single goroutine fans them out to all sinks in order.
type asyncWriter struct {
	records chan []byte
	flushes chan chan error
	drained chan struct{}
	closing sync.Once

	mu      sync.Mutex
	sinks   []*bufio.Writer
	failure error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	var sinks []*bufio.Writer
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, bufio.NewWriterSize(w, bufSize))
		}
	}
	aw := &asyncWriter{
		records: make(chan []byte, 256),
		flushes: make(chan chan error),
		drained: make(chan struct{}),
		sinks:   sinks,
	}
	go aw.pump()
	return aw
}

func (w *asyncWriter) pump() {
	for {
		select {
		case rec, ok := <-w.records:
			if !ok {
				w.flushSinks()
				close(w.drained)
				return
			}
			if len(rec) > 0 {
				w.fanOut(rec)
			}
		case ack := <-w.flushes:
			ack <- w.flushSinks()
		}
	}
}

// Write enqueues one record. When the queue is full the call blocks
// rather than dropping the record.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstFailure(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	rec := make([]byte, len(p))
	copy(rec, p)
	w.records <- rec
	return nil
}

// Flush forces buffered content out to every sink and waits for it.
func (w *asyncWriter) Flush() error {
	if err := w.firstFailure(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushes <- ack
	return <-ack
}

// Close drains the queue and reports the first write error seen.
func (w *asyncWriter) Close() error {
	w.closing.Do(func() { close(w.records) })
	<-w.drained
	return w.firstFailure()
}

func (w *asyncWriter) fanOut(rec []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sink := range w.sinks {
		if _, err := sink.Write(rec); err != nil {
			w.recordFailure(err)
			return
		}
		if err := sink.Flush(); err != nil {
			w.recordFailure(err)
			return
		}
	}
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) firstFailure() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failure
}

// recordFailure keeps the first error only; callers hold w.mu.
func (w *asyncWriter) recordFailure(err error) {
	if w.failure == nil {
		w.failure = err
	}
}
