package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintToken(t *testing.T) {
	a := FingerprintToken("header.payload.signature")
	b := FingerprintToken("header.payload.signature")
	c := FingerprintToken("header.payload.signaturf")

	require.Equal(t, a, b, "fingerprint is deterministic")
	require.NotEqual(t, a, c)
	require.Len(t, a, 43)
	require.NotContains(t, a, "=")
}
