package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func (s *Server) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "audio", "audio", s.cfg.MaxAudioBytes)
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "image", "images", s.cfg.MaxImageBytes)
}

// Avatar uploads are the only upload category that requires a caller.
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.callerID(r); !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	s.handleUpload(w, r, "avatar", "avatars", s.cfg.MaxAvatarBytes)
}

// handleUpload streams one multipart file into the public directory under the
// category subfolder. The stored name is "{unix-millis}_{originalName}" and
// the returned url is the path the static file server exposes it at.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, field, subdir string, maxBytes int64) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, field+" file is required")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	dir := filepath.Join(s.cfg.PublicDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("api-server: mkdir %s: %v", dir, err)
		writeError(w, http.StatusInternalServerError, "cannot save file")
		return
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.Printf("api-server: create %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "cannot save file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("api-server: write %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "cannot save file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": "/" + subdir + "/" + name})
}
