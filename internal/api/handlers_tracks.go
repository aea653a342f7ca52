package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/K1ritsugu/music-player-spa/internal/store"
)

const recommendationLimit = 10

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	genre := r.URL.Query().Get("genre")

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: list tracks load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	tracks := []store.Track{}
	for _, t := range doc.Tracks {
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if genre != "" && t.Genre != genre {
			continue
		}
		tracks = append(tracks, t)
	}

	writeJSON(w, http.StatusOK, tracks)
}

func matchesSearch(t store.Track, search string) bool {
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Artist), q) ||
		strings.Contains(strings.ToLower(t.Album), q)
}

func (s *Server) handleMyTracks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: my tracks load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	tracks := []store.Track{}
	for _, t := range doc.Tracks {
		if t.CreatedBy != nil && *t.CreatedBy == userID {
			tracks = append(tracks, t)
		}
	}

	writeJSON(w, http.StatusOK, tracks)
}

// handleFavoriteTracks returns the caller's liked tracks, scoped to tracks
// the caller uploaded.
func (s *Server) handleFavoriteTracks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: favorite tracks load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	tracks := []store.Track{}
	for _, t := range doc.Tracks {
		if t.IsLiked && t.CreatedBy != nil && *t.CreatedBy == userID {
			tracks = append(tracks, t)
		}
	}

	writeJSON(w, http.StatusOK, tracks)
}

// handleRecommendations returns the most recently added tracks the caller has
// neither uploaded nor already liked, newest first.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := s.callerID(r)

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: recommendations load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	tracks := []store.Track{}
	for i := len(doc.Tracks) - 1; i >= 0 && len(tracks) < recommendationLimit; i-- {
		t := doc.Tracks[i]
		if t.IsLiked {
			continue
		}
		if userID != "" && t.CreatedBy != nil && *t.CreatedBy == userID {
			continue
		}
		tracks = append(tracks, t)
	}

	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: get track load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	track := doc.TrackByID(trackID)
	if track == nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Title       string `json:"title"`
		Artist      string `json:"artist"`
		Album       string `json:"album"`
		Duration    int    `json:"duration"`
		URL         string `json:"url"`
		CoverURL    string `json:"coverUrl"`
		Genre       string `json:"genre"`
		ReleaseDate string `json:"releaseDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Duration < 0 {
		writeError(w, http.StatusBadRequest, "duration must be non-negative")
		return
	}

	// Anonymous uploads are allowed: createdBy stays null without a caller.
	var createdBy *string
	if userID, ok := s.callerID(r); ok {
		createdBy = &userID
	}

	now := time.Now().UTC()
	track := store.Track{
		ID:          uuid.NewString(),
		Title:       body.Title,
		Artist:      body.Artist,
		Album:       body.Album,
		Duration:    body.Duration,
		URL:         body.URL,
		CoverURL:    body.CoverURL,
		Genre:       body.Genre,
		ReleaseDate: body.ReleaseDate,
		PlayCount:   0,
		IsLiked:     false,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}
	if track.Title == "" {
		track.Title = "Untitled"
	}
	if track.Artist == "" {
		track.Artist = "Unknown Artist"
	}
	if track.Album == "" {
		track.Album = "Unknown Album"
	}
	if track.CoverURL == "" {
		track.CoverURL = "/placeholder.jpg"
	}
	if track.Genre == "" {
		track.Genre = "Unknown"
	}
	if track.ReleaseDate == "" {
		track.ReleaseDate = now.Format("2006-01-02")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: create track load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	doc.Tracks = append(doc.Tracks, track)

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: create track save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save track")
		return
	}

	s.events.Publish(ctx, "track.created", track)

	writeJSON(w, http.StatusCreated, track)
}

// handleDeleteTrack removes a track and cascades the removal into every
// playlist that embeds it. Tracks without an owner are deletable by anyone;
// owned tracks only by their owner.
func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trackID := chi.URLParam(r, "id")
	userID, _ := s.callerID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: delete track load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	idx := -1
	for i := range doc.Tracks {
		if doc.Tracks[i].ID == trackID {
			idx = i
			break
		}
	}
	if idx == -1 {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	track := doc.Tracks[idx]
	if track.CreatedBy != nil && *track.CreatedBy != userID {
		writeError(w, http.StatusForbidden, "you can only delete your own tracks")
		return
	}

	doc.Tracks = append(doc.Tracks[:idx], doc.Tracks[idx+1:]...)

	now := time.Now().UTC()
	for i := range doc.Playlists {
		pl := &doc.Playlists[i]

		kept := pl.Tracks[:0]
		removed := false
		for _, t := range pl.Tracks {
			if t.ID == trackID {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		pl.Tracks = kept

		keptIDs := pl.TrackIDs[:0]
		for _, id := range pl.TrackIDs {
			if id == trackID {
				removed = true
				continue
			}
			keptIDs = append(keptIDs, id)
		}
		pl.TrackIDs = keptIDs

		if removed {
			pl.UpdatedAt = now
		}
	}

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: delete track save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "track.deleted", map[string]any{"trackId": trackID})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type favoriteOp int

const (
	favoriteToggle favoriteOp = iota
	favoriteAdd
	favoriteRemove
)

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, favoriteToggle)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, favoriteAdd)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.setFavorite(w, r, favoriteRemove)
}

func (s *Server) setFavorite(w http.ResponseWriter, r *http.Request, op favoriteOp) {
	ctx := r.Context()
	trackID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: favorite load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	track := doc.TrackByID(trackID)
	if track == nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	switch op {
	case favoriteAdd:
		track.IsLiked = true
	case favoriteRemove:
		track.IsLiked = false
	default:
		track.IsLiked = !track.IsLiked
	}

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: favorite save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "track.updated", track)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "isLiked": track.IsLiked})
}
