package generator_test

import (
	"strings"
	"testing"

	"speakup/pkg/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	s, err := generator.RandomString(24)
	require.NoError(t, err)
	assert.Len(t, s, 24)

	for _, ch := range s {
		assert.True(t, strings.ContainsRune("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", ch))
	}

	other, err := generator.RandomString(24)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestRequestID(t *testing.T) {
	assert.Len(t, generator.RequestID(), 20)
}
