package otp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodesEqual(t *testing.T) {
	require.True(t, codesEqual("483920", "483920"))
	require.False(t, codesEqual("483920", "483921"))
	require.False(t, codesEqual("483920", "48392"))
	require.False(t, codesEqual("483920", ""))
	require.False(t, codesEqual("", "483920"))
	require.True(t, codesEqual("", ""))
}
