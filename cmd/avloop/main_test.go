// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"testing"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestCloseInto(t *testing.T) {
	t.Parallel()

	first := errors.New("run failed")
	closeErr := errors.New("close failed")

	tests := []struct {
		name     string
		prior    error
		closeErr error
		want     error
	}{
		{"clean", nil, nil, nil},
		{"close error surfaces", nil, closeErr, closeErr},
		{"earlier error wins", first, closeErr, first},
		{"earlier error kept", first, nil, first},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &closer{err: tt.closeErr}
			err := tt.prior
			closeInto(&err, c)

			if !c.closed {
				t.Error("closeInto() did not close")
			}
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
