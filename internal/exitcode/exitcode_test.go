package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorMapsCategories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, OK},
		{"plain error", errors.New("boom"), Failure},
		{"validation", ValidationError(errors.New("missing host")), Validation},
		{"connectivity", ConnectivityError(errors.New("dial tcp: refused")), Connectivity},
		{"interrupt", InterruptError(errors.New("interrupted")), Interrupted},
		{"wrapped validation", fmt.Errorf("setup: %w", ValidationError(errors.New("bad"))), Validation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromError(tt.err))
		})
	}
}

func TestCategoryUnwraps(t *testing.T) {
	inner := errors.New("key file missing")
	err := ValidationError(inner)
	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, inner.Error(), err.Error())
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.Nil(t, ValidationError(nil))
	assert.Nil(t, ConnectivityError(nil))
	assert.Nil(t, InterruptError(nil))
}
