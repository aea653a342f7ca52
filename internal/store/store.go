package store

import (
	"context"
	"encoding/json"
	"log"
	"os"
)

// Store gives each request whole-document read-modify-write access to the
// persisted state. There is no partial write: Save always rewrites the full
// document, so the last writer wins.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// FileStore keeps the document in a single JSON file on disk. A missing or
// corrupt file loads as an empty store rather than an error.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("api-server: read %s: %v", s.path, err)
		}
		return NewDocument(), nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("api-server: parse %s: %v", s.path, err)
		return NewDocument(), nil
	}
	doc.normalize()
	return &doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
