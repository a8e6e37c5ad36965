package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 42, "ana@example.com", 15)
    require.NoError(t, err)
    require.NotEmpty(t, at.Token)

    tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.EqualValues(t, 42, claims["sub"])
    assert.Equal(t, "ana@example.com", claims["email"])
}

func TestRefreshTokenHashing(t *testing.T) {
    rt, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96) // 48 random bytes hex-encoded

    h1 := HashRefreshRaw(rt.Raw)
    h2 := HashRefreshRaw(rt.Raw)
    assert.Equal(t, h1, h2)
    assert.Len(t, h1, 64)
    assert.NotEqual(t, rt.Raw, h1)
}

func TestNewOTPCode(t *testing.T) {
    seen := make(map[string]bool)
    for i := 0; i < 50; i++ {
        code, err := NewOTPCode()
        require.NoError(t, err)
        assert.Len(t, code, 6)
        for _, r := range code {
            assert.True(t, r >= '0' && r <= '9')
        }
        seen[code] = true
    }
    // 50 draws from a million values collide with negligible probability.
    assert.Greater(t, len(seen), 40)
}

func TestPasswordHashAndVerify(t *testing.T) {
    hash, err := HashPassword("s3cret", 4) // minimal cost keeps the test fast
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "s3cret"))
    assert.False(t, VerifyPassword(hash, "wrong"))
}
