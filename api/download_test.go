package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikkimase/storefront/downloads"
)

func issueToken(t *testing.T, env *testEnv, productID string) string {
	token, err := env.signer.Issue(productID, "reader@example.com", "cs_test_123")
	require.NoError(t, err)
	return token
}

func TestDownloadURLRedirects(t *testing.T) {
	env := newTestAPI(t)
	token := issueToken(t, env, "bedroom-boss")

	req := httptest.NewRequest(http.MethodGet, "/downloads/"+token, nil)
	w := env.do(req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://assets.example.com/bedroom-boss.epub", w.Header().Get("Location"))
}

func TestDownloadURLExpired(t *testing.T) {
	env := newTestAPI(t)

	// issued two hours in the past with a one hour ttl
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredSigner := downloads.NewSignerWithClock(testDownloadSecret, time.Hour, past)
	token, err := expiredSigner.Issue("bedroom-boss", "reader@example.com", "cs_test_123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/downloads/"+token, nil)
	w := env.do(req)

	require.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, extractError(t, w).Message, "expired")
}

func TestDownloadURLRejectsForgeries(t *testing.T) {
	env := newTestAPI(t)
	token := issueToken(t, env, "bedroom-boss")

	// flip a character inside the payload segment
	tampered := []byte(token)
	if tampered[10] == 'A' {
		tampered[10] = 'B'
	} else {
		tampered[10] = 'A'
	}

	// a tampered token and outright garbage must be indistinguishable
	// to the caller
	for _, bad := range []string{string(tampered), "garbage", "a.b.c", "."} {
		req := httptest.NewRequest(http.MethodGet, "/downloads/"+bad, nil)
		w := env.do(req)

		require.Equal(t, http.StatusNotFound, w.Code, "token %q", bad)
		assert.Equal(t, downloadNotFoundMessage, extractError(t, w).Message, "token %q", bad)
	}
}

func TestDownloadURLUnknownProduct(t *testing.T) {
	env := newTestAPI(t)
	token := issueToken(t, env, "delisted-book")

	req := httptest.NewRequest(http.MethodGet, "/downloads/"+token, nil)
	w := env.do(req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, downloadNotFoundMessage, extractError(t, w).Message)
}

func TestDownloadURLPhysicalProduct(t *testing.T) {
	env := newTestAPI(t)
	token := issueToken(t, env, "signed-poster")

	req := httptest.NewRequest(http.MethodGet, "/downloads/"+token, nil)
	w := env.do(req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func resendRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/downloads/resend", strings.NewReader(body))
}

func TestDownloadResend(t *testing.T) {
	env := newTestAPI(t)

	req := resendRequest(`{"product_id": "bedroom-boss", "email": "reader@example.com", "transaction_id": "cs_test_123"}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "support@example.com", "admin"))
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mailer.sent, 1)

	mail := env.mailer.sent[0]
	assert.Equal(t, "reader@example.com", mail.Email)
	assert.Equal(t, "TEST_123", mail.OrderNumber)

	// the mailed link must carry a token that verifies
	require.True(t, strings.HasPrefix(mail.DownloadURL, testSiteURL+"/downloads/"))
	token := strings.TrimPrefix(mail.DownloadURL, testSiteURL+"/downloads/")
	result := env.signer.Verify(token)
	require.True(t, result.Valid)
	assert.Equal(t, "bedroom-boss", result.ProductID)
}

func TestDownloadResendRequiresAuth(t *testing.T) {
	env := newTestAPI(t)

	w := env.do(resendRequest(`{"product_id": "bedroom-boss", "email": "reader@example.com"}`))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, env.mailer.sent)
}

func TestDownloadResendRejectsNonAdmin(t *testing.T) {
	env := newTestAPI(t)

	req := resendRequest(`{"product_id": "bedroom-boss", "email": "reader@example.com"}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "reader@example.com", "member"))
	w := env.do(req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, env.mailer.sent)
}

func TestDownloadResendRejectsForgedToken(t *testing.T) {
	env := newTestAPI(t)
	env.api.config.JWT.Secret = "a-different-secret"

	req := resendRequest(`{"product_id": "bedroom-boss", "email": "reader@example.com"}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "support@example.com", "admin"))
	w := env.do(req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, env.mailer.sent)
}

func TestDownloadResendMissingFields(t *testing.T) {
	env := newTestAPI(t)

	req := resendRequest(`{"product_id": "bedroom-boss"}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "support@example.com", "admin"))
	w := env.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.mailer.sent)
}

func TestDownloadResendUnknownProduct(t *testing.T) {
	env := newTestAPI(t)

	req := resendRequest(`{"product_id": "nope", "email": "reader@example.com"}`)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "support@example.com", "admin"))
	w := env.do(req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.mailer.sent)
}
