// ABOUTME: Tests for the session store
// ABOUTME: Covers persistence round trips, rehydration edge cases, and expiry

package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloobman/ControlSystem/internal/api"
)

func testUser() api.User {
	return api.User{
		ID:    "u1",
		Email: "sasha@site.ru",
		Name:  "Sasha",
		Role:  api.RoleEngineer,
	}
}

// makeJWT builds an unsigned JWT with the given exp claim. The store never
// verifies signatures, so a fake signature segment is enough.
func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"sub": "u1", "exp": exp.Unix()})
	require.NoError(t, err)
	claims := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s.%s", header, claims, base64.RawURLEncoding.EncodeToString([]byte("sig")))
}

func TestSetAuthenticated_PersistsAndExposes(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.SetAuthenticated(testUser(), "tok-123"))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-123", s.Token())
	require.NotNil(t, s.Current())
	assert.Equal(t, "Sasha", s.Current().Name)

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConsistency_NeverHalfAuthenticated(t *testing.T) {
	s := New(t.TempDir())

	// Fresh store: no user, no token.
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())

	require.NoError(t, s.SetAuthenticated(testUser(), "tok"))
	assert.True(t, s.IsAuthenticated())
	assert.NotNil(t, s.Current())
	assert.NotEmpty(t, s.Token())

	require.NoError(t, s.ClearAuthenticated())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestClearAuthenticated_RemovesFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.SetAuthenticated(testUser(), "tok"))

	require.NoError(t, s.ClearAuthenticated())

	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestClearAuthenticated_NoFileIsNotAnError(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.ClearAuthenticated())
}

func TestRehydrate_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	require.NoError(t, first.SetAuthenticated(testUser(), "tok-123"))

	second := New(dir)
	second.Rehydrate()

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "tok-123", second.Token())
	require.NotNil(t, second.Current())
	assert.Equal(t, "u1", second.Current().ID)
}

func TestRehydrate_MissingFile(t *testing.T) {
	s := New(t.TempDir())
	s.Rehydrate()
	assert.False(t, s.IsAuthenticated())
}

func TestRehydrate_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	s := New(dir)
	s.Rehydrate()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Current())
}

func TestRehydrate_EmptyFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"token":"","user":{}}`), 0o600))

	s := New(dir)
	s.Rehydrate()

	assert.False(t, s.IsAuthenticated())
}

func TestRehydrate_ExpiredToken(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	expired := makeJWT(t, time.Now().Add(-time.Hour))
	require.NoError(t, first.SetAuthenticated(testUser(), expired))

	second := New(dir)
	second.Rehydrate()

	assert.False(t, second.IsAuthenticated())
	assert.Nil(t, second.Current())
}

func TestRehydrate_ValidToken(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	valid := makeJWT(t, time.Now().Add(time.Hour))
	require.NoError(t, first.SetAuthenticated(testUser(), valid))

	second := New(dir)
	second.Rehydrate()

	assert.True(t, second.IsAuthenticated())
}

func TestRehydrate_NonJWTTokenKept(t *testing.T) {
	// Opaque tokens are the server's problem; the client keeps them.
	dir := t.TempDir()
	first := New(dir)
	require.NoError(t, first.SetAuthenticated(testUser(), "opaque-token"))

	second := New(dir)
	second.Rehydrate()

	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "opaque-token", second.Token())
}

func TestRehydrate_Idempotent(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	require.NoError(t, first.SetAuthenticated(testUser(), "tok"))

	s := New(dir)
	s.Rehydrate()
	s.Rehydrate()

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok", s.Token())
}

func TestRehydrate_ClearsPreviousState(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.SetAuthenticated(testUser(), "tok"))
	require.NoError(t, os.Remove(filepath.Join(dir, "session.json")))

	// File is gone; rehydrating must not leave the stale in-memory identity.
	s.Rehydrate()
	assert.False(t, s.IsAuthenticated())
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.SetAuthenticated(testUser(), "tok"))

	u := s.Current()
	u.Name = "Mallory"

	assert.Equal(t, "Sasha", s.Current().Name)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, filepath.Join("/tmp/xdg-test", "defectctl"), DefaultConfigDir())
}
