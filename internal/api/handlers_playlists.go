package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/K1ritsugu/music-player-spa/internal/store"
)

// handleListPlaylists shows only the caller's playlists. Without a caller the
// list is empty, not an error.
func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(r)

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: list playlists load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	playlists := []store.Playlist{}
	if ok {
		for _, pl := range doc.Playlists {
			if pl.CreatedBy != nil && *pl.CreatedBy == userID {
				playlists = append(playlists, pl)
			}
		}
	}

	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: get playlist load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	pl := doc.PlaylistByID(playlistID)
	if pl == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	writeJSON(w, http.StatusOK, pl)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		CoverURL    string   `json:"coverUrl"`
		TrackIDs    []string `json:"trackIds"`
		IsPublic    *bool    `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var createdBy *string
	if userID, ok := s.callerID(r); ok {
		createdBy = &userID
	}

	now := time.Now().UTC()
	pl := store.Playlist{
		ID:          uuid.NewString(),
		Name:        body.Name,
		Description: body.Description,
		CoverURL:    body.CoverURL,
		Tracks:      []store.Track{},
		TrackIDs:    body.TrackIDs,
		CreatedBy:   createdBy,
		IsPublic:    body.IsPublic == nil || *body.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if pl.Name == "" {
		pl.Name = "New Playlist"
	}
	if pl.CoverURL == "" {
		pl.CoverURL = "/placeholder.jpg"
	}
	if pl.TrackIDs == nil {
		pl.TrackIDs = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: create playlist load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	// Snapshot the referenced tracks in document order. Ids that match no
	// track are dropped from the snapshots but kept in trackIds, matching
	// the lenient behavior clients already depend on.
	if len(body.TrackIDs) > 0 {
		wanted := make(map[string]bool, len(body.TrackIDs))
		for _, id := range body.TrackIDs {
			wanted[id] = true
		}
		for _, t := range doc.Tracks {
			if wanted[t.ID] {
				pl.Tracks = append(pl.Tracks, t)
			}
		}
	}

	doc.Playlists = append(doc.Playlists, pl)

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: create playlist save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save playlist")
		return
	}

	s.events.Publish(ctx, "playlist.created", pl)

	writeJSON(w, http.StatusCreated, pl)
}

// handlePatchPlaylist updates playlist metadata. Track membership is managed
// through the dedicated track endpoints, and embedded snapshots are never
// rewritten here.
func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		CoverURL    *string `json:"coverUrl"`
		IsPublic    *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: patch playlist load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	pl := doc.PlaylistByID(playlistID)
	if pl == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	if body.Name != nil {
		pl.Name = *body.Name
	}
	if body.Description != nil {
		pl.Description = *body.Description
	}
	if body.CoverURL != nil {
		pl.CoverURL = *body.CoverURL
	}
	if body.IsPublic != nil {
		pl.IsPublic = *body.IsPublic
	}
	pl.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: patch playlist save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "playlist.updated", pl)

	writeJSON(w, http.StatusOK, pl)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: delete playlist load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	idx := -1
	for i := range doc.Playlists {
		if doc.Playlists[i].ID == playlistID {
			idx = i
			break
		}
	}
	if idx == -1 {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	doc.Playlists = append(doc.Playlists[:idx], doc.Playlists[idx+1:]...)

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: delete playlist save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "playlist.deleted", map[string]any{"playlistId": playlistID})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleAddPlaylistTrack appends a snapshot of the track to the playlist.
// The snapshot is the track's state right now; later track edits do not
// propagate into it.
func (s *Server) handleAddPlaylistTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")

	var body struct {
		TrackID string `json:"trackId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: add playlist track load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	pl := doc.PlaylistByID(playlistID)
	if pl == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	track := doc.TrackByID(body.TrackID)
	if track == nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	for _, t := range pl.Tracks {
		if t.ID == body.TrackID {
			writeError(w, http.StatusBadRequest, "track already exists in playlist")
			return
		}
	}
	for _, id := range pl.TrackIDs {
		if id == body.TrackID {
			writeError(w, http.StatusBadRequest, "track already exists in playlist")
			return
		}
	}

	pl.Tracks = append(pl.Tracks, *track)
	pl.TrackIDs = append(pl.TrackIDs, body.TrackID)
	pl.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: add playlist track save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "playlist.updated", pl)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleRemovePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	trackID := chi.URLParam(r, "trackId")

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: remove playlist track load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	pl := doc.PlaylistByID(playlistID)
	if pl == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	present := false
	for _, t := range pl.Tracks {
		if t.ID == trackID {
			present = true
			break
		}
	}
	if !present {
		for _, id := range pl.TrackIDs {
			if id == trackID {
				present = true
				break
			}
		}
	}
	if !present {
		writeError(w, http.StatusNotFound, "track not found in playlist")
		return
	}

	kept := pl.Tracks[:0]
	for _, t := range pl.Tracks {
		if t.ID != trackID {
			kept = append(kept, t)
		}
	}
	pl.Tracks = kept

	keptIDs := pl.TrackIDs[:0]
	for _, id := range pl.TrackIDs {
		if id != trackID {
			keptIDs = append(keptIDs, id)
		}
	}
	pl.TrackIDs = keptIDs

	pl.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: remove playlist track save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "playlist.updated", pl)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
