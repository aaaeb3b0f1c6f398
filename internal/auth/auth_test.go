package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestBearerToken(t *testing.T) {
	var nilSession *Session
	_, err := nilSession.BearerToken()
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = (&Session{Token: "  "}).BearerToken()
	assert.ErrorIs(t, err, ErrNoCredential)

	tok, err := (&Session{Token: "abc"}).BearerToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signed(t, Claims{
		UserID:           "u1",
		Email:            "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})

	claims, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))

	_, err = ParseClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestSessionValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	expired := signed(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))}})
	fresh := signed(t, Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}})

	assert.False(t, (&Session{}).Valid(now))
	assert.False(t, (&Session{Token: expired}).Valid(now))
	assert.True(t, (&Session{Token: fresh}).Valid(now))
	assert.True(t, (&Session{Token: "opaque"}).Valid(now), "opaque tokens are left to the service")
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", User{Name: "Ada", Email: "ada@x"}.DisplayName())
	assert.Equal(t, "ada@x", User{Email: "ada@x"}.DisplayName())
	assert.Equal(t, "there", User{}.DisplayName())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noteshive", "session.json")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	s := &Session{Token: "tok", User: User{ID: "1", Name: "Ada", Email: "ada@x"}}
	require.NoError(t, store.Save(s))
	assert.False(t, s.SavedAt.IsZero())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, s.User, got.User)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileStore_SaveRequiresToken(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	assert.ErrorIs(t, store.Save(&Session{}), ErrNoCredential)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))
	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "watch channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for session event")
		return Event{}
	}
}

func TestFileStore_Watch(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(&Session{Token: "tok"}))
	assert.Equal(t, SessionChanged, nextEvent(t, events).Kind)

	require.NoError(t, store.Clear())
	assert.Equal(t, SessionRemoved, nextEvent(t, events).Kind)

	cancel()
	for range events {
	}
}

func TestGoogleFlow_Exchange(t *testing.T) {
	idToken := signed(t, IDTokenProfile{Email: "ada@x", Name: "Ada", Picture: "https://pic"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     idToken,
		})
	}))
	defer srv.Close()

	flow := newGoogleFlow(&oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
	})

	u := flow.AuthURL()
	assert.True(t, strings.HasPrefix(u, srv.URL+"/auth?"))
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "state="+flow.state)

	id, err := flow.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, idToken, id.IDToken)
	assert.Equal(t, "ada@x", id.Email)
	assert.Equal(t, "Ada", id.Name)
	assert.Equal(t, "https://pic", id.Picture)
}

func TestGoogleFlow_ExchangeWithoutIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","token_type":"Bearer"}`))
	}))
	defer srv.Close()

	flow := newGoogleFlow(&oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{TokenURL: srv.URL + "/token"},
	})
	_, err := flow.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, errNoIDToken)
}

func TestNewGoogleFlowFromJSON(t *testing.T) {
	creds := `{"installed":{"client_id":"cid","client_secret":"cs","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	flow, err := NewGoogleFlowFromJSON([]byte(creds))
	require.NoError(t, err)
	assert.Contains(t, flow.AuthURL(), "client_id=cid")

	_, err = NewGoogleFlowFromJSON([]byte(`{}`))
	assert.Error(t, err)
}
