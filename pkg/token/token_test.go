package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestService(t *testing.T, now func() time.Time) *Service {
	t.Helper()
	svc, err := NewService(testSecret, 0, WithClock(now))
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := NewService([]byte("short"), time.Hour)
		assert.ErrorIs(t, err, ErrWeakSecret)
	})

	t.Run("defaults ttl", func(t *testing.T) {
		svc, err := NewService(testSecret, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultTTL, svc.TTL())
	})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return now })

	raw, err := svc.Issue("user-123")
	require.NoError(t, err)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.True(t, now.Equal(claims.IssuedAt))
	assert.True(t, now.Add(24*time.Hour).Equal(claims.ExpiresAt))
}

func TestIssueEmbedsOnlySubjectAndWindow(t *testing.T) {
	svc := newTestService(t, time.Now)
	raw, err := svc.Issue("user-123")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(raw, claims)
	require.NoError(t, err)

	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"sub", "iat", "exp"}, keys)
}

func TestIssueRequiresSubject(t *testing.T) {
	svc := newTestService(t, time.Now)
	_, err := svc.Issue("")
	assert.Error(t, err)
}

func TestVerifyFailures(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer := newTestService(t, func() time.Time { return issuedAt })
	raw, err := issuer.Issue("user-123")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	otherSecret, err := NewService([]byte("ffffffffffffffffffffffffffffffff"), 0)
	require.NoError(t, err)
	foreign, err := otherSecret.Issue("user-123")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-123",
	}).SignedString(testSecret)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		now  time.Time
	}{
		{"empty", "", issuedAt},
		{"garbage", "not-a-token", issuedAt},
		{"tampered payload", parts[0] + "." + parts[1] + "x." + parts[2], issuedAt},
		{"tampered signature", parts[0] + "." + parts[1] + "." + flip(parts[2], 5), issuedAt},
		{"foreign secret", foreign, issuedAt},
		{"alg none", noneToken, issuedAt},
		{"missing exp", noExp, issuedAt},
		{"missing sub", noSub, issuedAt},
		{"expired", raw, issuedAt.Add(24*time.Hour + time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func() time.Time { return tt.now })
			claims, err := svc.Verify(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "24h", FormatTTL(24*time.Hour))
	assert.Equal(t, "90m", FormatTTL(90*time.Minute))
	assert.Equal(t, "1m30s", FormatTTL(90*time.Second))
}

func flip(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
