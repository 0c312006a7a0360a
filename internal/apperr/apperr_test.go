package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(KindInput, "source: read", io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("pipeline: %w", base)

	assert.Equal(t, KindInput, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInput))
	assert.False(t, Is(wrapped, KindPattern))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindUnknown))
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(KindPattern, "filter: compile", "invalid regex %q", "(")
	require.Error(t, err)
	assert.Equal(t, `filter: compile: pattern error: invalid regex "("`, err.Error())

	bare := New(KindChannel, "", errors.New("closed"))
	assert.Equal(t, "channel error: closed", bare.Error())
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindInput:       "input",
		KindPattern:     "pattern",
		KindChannel:     "channel",
		KindStateAccess: "state access",
		KindOutput:      "output",
		KindConfig:      "config",
		KindUnknown:     "unknown",
	}
	for k, want := range kinds {
		assert.Equal(t, want, k.String())
	}
}
