package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/K1ritsugu/music-player-spa/internal/store"
)

const defaultUserName = "New User"

type authResponse struct {
	User  store.User `json:"user"`
	Token string     `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: register load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	if doc.UserByEmail(body.Email) != nil {
		writeError(w, http.StatusBadRequest, "user with this email already exists")
		return
	}

	user := store.User{
		ID:        uuid.NewString(),
		Email:     body.Email,
		Name:      body.Name,
		Role:      "listener",
		AvatarURL: nil,
		CreatedAt: time.Now().UTC(),
	}
	if user.Name == "" {
		user.Name = defaultUserName
	}
	doc.Users = append(doc.Users, user)

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: register save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		log.Printf("api-server: issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.events.Publish(ctx, "user.registered", user)

	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// handleLogin is a mock login: no password check, and an unknown email
// creates the user on first login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: login load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	user := doc.UserByEmail(body.Email)
	if user == nil {
		created := store.User{
			ID:        uuid.NewString(),
			Email:     body.Email,
			Name:      defaultUserName,
			Role:      "listener",
			AvatarURL: nil,
			CreatedAt: time.Now().UTC(),
		}
		doc.Users = append(doc.Users, created)
		if err := s.store.Save(ctx, doc); err != nil {
			log.Printf("api-server: login save: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save user")
			return
		}
		user = &doc.Users[len(doc.Users)-1]
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		log.Printf("api-server: issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: *user, Token: token})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.store.Load(r.Context())
	if err != nil {
		log.Printf("api-server: profile load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	user := doc.UserByID(userID)
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleUpdateProfile updates name and avatarUrl only; other user fields are
// not writable through the API.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := s.callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var body struct {
		Name      *string `json:"name"`
		AvatarURL *string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("api-server: update profile load: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	user := doc.UserByID(userID)
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if body.Name != nil {
		user.Name = *body.Name
	}
	if body.AvatarURL != nil {
		user.AvatarURL = body.AvatarURL
	}
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("api-server: update profile save: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}

	s.events.Publish(ctx, "user.updated", user)

	writeJSON(w, http.StatusOK, user)
}
