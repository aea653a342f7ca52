package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/K1ritsugu/music-player-spa/internal/auth"
	"github.com/K1ritsugu/music-player-spa/internal/store"
)

func newTestServer(t *testing.T) (*Server, chi.Router) {
	t.Helper()
	dir := t.TempDir()
	st := store.NewFileStore(filepath.Join(dir, "db.json"))
	srv := NewServer(st, auth.NewMockAuthenticator(), nil, Config{
		PublicDir: filepath.Join(dir, "public"),
	})
	return srv, srv.Router()
}

func bearer(userID string) string {
	return "Bearer mock-token-" + userID
}

// doJSON runs one request against the router and returns the recorder. A nil
// body sends no payload; a string body is sent verbatim (for bad-JSON cases).
func doJSON(t *testing.T, r chi.Router, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), "body: %s", w.Body.String())
}

func registerUser(t *testing.T, r chi.Router, email string) (store.User, string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email,
		"name":  "Tester",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp struct {
		User  store.User `json:"user"`
		Token string     `json:"token"`
	}
	decodeInto(t, w, &resp)
	return resp.User, resp.Token
}

func createTrack(t *testing.T, r chi.Router, body map[string]any, authHeader string) store.Track {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/tracks", body, authHeader)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var track store.Track
	decodeInto(t, w, &track)
	return track
}

func createPlaylist(t *testing.T, r chi.Router, body map[string]any, authHeader string) store.Playlist {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/playlists", body, authHeader)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var pl store.Playlist
	decodeInto(t, w, &pl)
	return pl
}
