package totp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// rfcSecret is the RFC 6238 reference secret ("12345678901234567890") in
// base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerateCodeMatchesReferenceVector(t *testing.T) {
	code, err := Generator{}.GenerateCode(rfcSecret, time.Unix(59, 0).UTC())
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestGenerateCodeStableWithinWindow(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()

	first, err := Generator{}.GenerateCode(rfcSecret, at)
	require.NoError(t, err)
	second, err := Generator{}.GenerateCode(rfcSecret, at.Add(5*time.Second))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 6)
}

func TestGenerateCodeTrimsWhitespace(t *testing.T) {
	code, err := Generator{}.GenerateCode("  "+rfcSecret+"\n", time.Unix(59, 0).UTC())
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestGenerateCodeRejectsInvalidSecret(t *testing.T) {
	_, err := Generator{}.GenerateCode("not base32!", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidSecret)
}
