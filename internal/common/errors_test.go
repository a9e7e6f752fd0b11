package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestError_UnwrapsToKind(t *testing.T) {
	err := BadRequest("Missing name")

	assert.True(t, errors.Is(err, ErrorBadRequest))
	assert.False(t, errors.Is(err, ErrorNotFound))
	assert.Equal(t, "Missing name", err.Error())
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("upload: %w", NotFound("Not found"))

	assert.Equal(t, "Not found", MessageOf(wrapped, "fallback"))
	assert.Equal(t, "fallback", MessageOf(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", MessageOf(nil, "fallback"))
}
