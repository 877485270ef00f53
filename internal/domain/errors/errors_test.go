package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "none"},
		{name: "transient", err: NewTransientError("deleting channel", cause), want: "transient"},
		{name: "permanent", err: NewPermanentError("deleting channel", cause), want: "permanent"},
		{name: "wrapped transient", err: fmt.Errorf("open ticket: %w", NewTransientError("x", cause)), want: "transient"},
		{name: "plain", err: cause, want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("unknown channel")
	err := NewPermanentError("deleting channel", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "deleting channel: unknown channel", err.Error())
	assert.False(t, IsTransient(err))
}
