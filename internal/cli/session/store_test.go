package session

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func testBackends(t *testing.T) map[string]Backend {
	t.Helper()

	keyring.MockInit()

	sqliteBackend, err := OpenSQLiteBackend(filepath.Join(t.TempDir(), "session.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqliteBackend.Close() })

	return map[string]Backend{
		"memory":  NewMemoryBackend(),
		"file":    NewFileBackend(t.TempDir()),
		"sqlite":  sqliteBackend,
		"keyring": NewKeyringBackend(),
	}
}

func sampleSession() *Session {
	return &Session{
		AccessToken:  "T",
		RefreshToken: "R",
		UserID:       42,
		Role:         RoleCustomer,
		Email:        "a@b.com",
		Extra: map[string]json.RawMessage{
			"pin": json.RawMessage(`560001`),
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(backend, zerolog.Nop())
			want := sampleSession()

			require.NoError(t, store.Save(want))

			got, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, "T", store.Token())
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zerolog.Nop())

	require.NoError(t, store.Save(sampleSession()))
	require.NoError(t, store.Save(&Session{AccessToken: "U", Role: RoleAdmin}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &Session{AccessToken: "U", Role: RoleAdmin}, got)
}

func TestStore_ClearThenLoadIsAbsent(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := NewStore(backend, zerolog.Nop())
			require.NoError(t, store.Save(sampleSession()))

			require.NoError(t, store.Clear())
			require.NoError(t, store.Clear(), "clear must be idempotent")

			got, err := store.Load()
			require.NoError(t, err)
			assert.Nil(t, got)
			assert.Empty(t, store.Token())
		})
	}
}

func TestStore_MalformedRecordIsAbsentAndRemoved(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"access_token": "T"`},
		{"json null", `null`},
		{"array", `["T"]`},
		{"wrong field type", `{"access_token": 7, "role": "admin"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			require.NoError(t, backend.Set(StorageKey, []byte(tt.raw)))
			store := NewStore(backend, zerolog.Nop())

			got, err := store.Load()
			require.NoError(t, err)
			assert.Nil(t, got)

			_, err = backend.Get(StorageKey)
			assert.True(t, errors.Is(err, ErrNotFound), "malformed record should be removed")
		})
	}
}

type failingBackend struct{ err error }

func (f failingBackend) Get(string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Set(string, []byte) error   { return f.err }
func (f failingBackend) Delete(string) error        { return f.err }

func TestStore_BackendErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	store := NewStore(failingBackend{err: boom}, zerolog.Nop())

	_, err := store.Load()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Save(sampleSession()), boom)
	assert.ErrorIs(t, store.Clear(), boom)

	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())
}

func TestSession_ExtraFieldsRoundTrip(t *testing.T) {
	raw := `{"access_token":"T","refresh_token":"R","user_id":7,"role":"professional","service_type":"plumbing","approved":true}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, RoleProfessional, s.Role)
	assert.Equal(t, int64(7), s.UserID)
	assert.JSONEq(t, `"plumbing"`, string(s.Extra["service_type"]))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestSession_ExtraCannotShadowKnownFields(t *testing.T) {
	s := Session{
		AccessToken: "T",
		Role:        RoleAdmin,
		Extra:       map[string]json.RawMessage{"role": json.RawMessage(`"customer"`)},
	}

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"T","role":"admin"}`, string(out))
}

func TestSession_Clone(t *testing.T) {
	orig := sampleSession()
	c := orig.Clone()
	c.Extra["pin"][0] = '9'
	c.Email = "x@y.z"

	assert.Equal(t, "a@b.com", orig.Email)
	assert.JSONEq(t, `560001`, string(orig.Extra["pin"]))
	assert.Nil(t, (*Session)(nil).Clone())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleProfessional.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("guest").Valid())
	assert.False(t, Role("").Valid())
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenBackend(BackendMemory, dir, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = OpenBackend("", dir, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = OpenBackend("redis", dir, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown session backend")
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt))

	s := &Session{AccessToken: signed}
	assert.True(t, exp.Equal(s.ExpiresAt()))

	_, err = ParseClaims("opaque-token")
	assert.Error(t, err)
	assert.True(t, (&Session{AccessToken: "opaque-token"}).ExpiresAt().IsZero())
}
