package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsClientFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", fmt.Errorf("%w: bad fen", ErrValidation), true},
		{"spawn", fmt.Errorf("%w: no such file", ErrEngineSpawn), false},
		{"runtime", ErrEngineRuntime, false},
		{"timeout", ErrEngineTimeout, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientFault(tt.err))
		})
	}
}
