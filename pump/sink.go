// SPDX-License-Identifier: EPL-2.0

package pump

import "errors"

// Sink receives captured interleaved samples.
type Sink interface {
	WriteSamples(samples []float32) error
	Close() error
}

type multiSink struct {
	sinks []Sink
}

// MultiSink duplicates writes to every sink. A write stops at the first
// error; Close closes all of them and joins their errors.
func MultiSink(sinks ...Sink) Sink {
	all := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			all = append(all, s)
		}
	}
	return &multiSink{sinks: all}
}

func (m *multiSink) WriteSamples(samples []float32) error {
	for _, s := range m.sinks {
		if err := s.WriteSamples(samples); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteSamples([]float32) error { return nil }
func (discard) Close() error                 { return nil }
