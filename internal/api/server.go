package api

import (
	"net/http"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/K1ritsugu/music-player-spa/internal/auth"
	"github.com/K1ritsugu/music-player-spa/internal/events"
	"github.com/K1ritsugu/music-player-spa/internal/store"
)

const (
	defaultMaxAudioBytes  = 50 * 1024 * 1024
	defaultMaxImageBytes  = 10 * 1024 * 1024
	defaultMaxAvatarBytes = 5 * 1024 * 1024
)

type Config struct {
	// PublicDir is where uploaded assets live, partitioned into audio/,
	// images/ and avatars/. It is also served as static files.
	PublicDir string

	// Upload size limits per category; zero means the default.
	MaxAudioBytes  int64
	MaxImageBytes  int64
	MaxAvatarBytes int64
}

type Server struct {
	store  store.Store
	auth   auth.Authenticator
	events *events.Publisher
	cfg    Config

	// mu serializes the load-mutate-save cycle of every request so that
	// concurrent handlers keep read-your-writes and never interleave
	// partial document states. Readers share, writers are exclusive.
	mu sync.RWMutex
}

func NewServer(st store.Store, authn auth.Authenticator, pub *events.Publisher, cfg Config) *Server {
	if cfg.PublicDir == "" {
		cfg.PublicDir = "public"
	}
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = defaultMaxAudioBytes
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	if cfg.MaxAvatarBytes <= 0 {
		cfg.MaxAvatarBytes = defaultMaxAvatarBytes
	}
	return &Server{store: st, auth: authn, events: pub, cfg: cfg}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/auth/profile", s.handleGetProfile)
		r.Put("/auth/profile", s.handleUpdateProfile)

		// Literal track routes must outrank /tracks/{id}; chi's trie tries
		// literal segments before parameters, so /tracks/my and friends are
		// never swallowed by the id wildcard.
		r.Get("/tracks", s.handleListTracks)
		r.Post("/tracks", s.handleCreateTrack)
		r.Get("/tracks/my", s.handleMyTracks)
		r.Get("/tracks/favoriteTracks", s.handleFavoriteTracks)
		r.Get("/tracks/recommendations", s.handleRecommendations)
		r.Post("/tracks/favorites/{id}", s.handleAddFavorite)
		r.Delete("/tracks/favorites/{id}", s.handleRemoveFavorite)
		r.Post("/tracks/favorites/{id}/toggle", s.handleToggleFavorite)
		r.Get("/tracks/{id}", s.handleGetTrack)
		r.Delete("/tracks/{id}", s.handleDeleteTrack)

		r.Get("/playlists", s.handleListPlaylists)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Get("/playlists/{id}", s.handleGetPlaylist)
		r.Patch("/playlists/{id}", s.handlePatchPlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)
		r.Post("/playlists/{id}/tracks", s.handleAddPlaylistTrack)
		r.Delete("/playlists/{id}/tracks/{trackId}", s.handleRemovePlaylistTrack)

		r.Post("/upload/audio", s.handleUploadAudio)
		r.Post("/upload/image", s.handleUploadImage)
		r.Post("/upload/avatar", s.handleUploadAvatar)
	})

	// Uploaded assets are served straight from the public directory.
	fileServer := http.FileServer(http.Dir(s.cfg.PublicDir))
	r.Handle("/audio/*", fileServer)
	r.Handle("/images/*", fileServer)
	r.Handle("/avatars/*", fileServer)
	r.Get("/placeholder.jpg", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(s.cfg.PublicDir, "placeholder.jpg"))
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "api-server",
	})
}
