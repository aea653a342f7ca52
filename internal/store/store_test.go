package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "db.json"))

	doc, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Tracks)
	assert.Empty(t, doc.Playlists)
	assert.Empty(t, doc.Users)
	assert.NotNil(t, doc.Tracks)
	assert.NotNil(t, doc.Playlists)
	assert.NotNil(t, doc.Users)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := NewFileStore(path)
	doc, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	st := NewFileStore(path)

	doc := NewDocument()
	owner := "user-1"
	doc.Users = append(doc.Users, User{ID: owner, Email: "a@x.com", Name: "A", Role: "listener"})
	doc.Tracks = append(doc.Tracks, Track{ID: "t-1", Title: "Song", CreatedBy: &owner})
	doc.Playlists = append(doc.Playlists, Playlist{
		ID:       "p-1",
		Name:     "Mix",
		Tracks:   []Track{{ID: "t-1", Title: "Song"}},
		TrackIDs: []string{"t-1"},
	})

	require.NoError(t, st.Save(ctx, doc))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Users, 1)
	require.Len(t, got.Tracks, 1)
	require.Len(t, got.Playlists, 1)
	assert.Equal(t, "a@x.com", got.Users[0].Email)
	require.NotNil(t, got.Tracks[0].CreatedBy)
	assert.Equal(t, owner, *got.Tracks[0].CreatedBy)
	assert.Equal(t, []string{"t-1"}, got.Playlists[0].TrackIDs)
}

func TestFileStoreSavePrettyPrints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	st := NewFileStore(path)

	require.NoError(t, st.Save(context.Background(), NewDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n"), "document should be pretty-printed")
}

func TestFileStoreSaveFailureSurfaces(t *testing.T) {
	// The path is a directory, so the write must fail and the error must
	// reach the caller instead of being swallowed.
	st := NewFileStore(t.TempDir())
	assert.Error(t, st.Save(context.Background(), NewDocument()))
}

func TestFileStoreLoadNormalizesNilCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"playlists":[{"id":"p-1"}]}`), 0o644))

	st := NewFileStore(path)
	doc, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Tracks)
	assert.NotNil(t, doc.Users)
	require.Len(t, doc.Playlists, 1)
	assert.NotNil(t, doc.Playlists[0].Tracks)
	assert.NotNil(t, doc.Playlists[0].TrackIDs)
}

func TestDocumentLookups(t *testing.T) {
	doc := NewDocument()
	doc.Users = append(doc.Users, User{ID: "u-1", Email: "a@x.com"})
	doc.Tracks = append(doc.Tracks, Track{ID: "t-1"})
	doc.Playlists = append(doc.Playlists, Playlist{ID: "p-1"})

	assert.NotNil(t, doc.UserByID("u-1"))
	assert.Nil(t, doc.UserByID("u-2"))
	assert.NotNil(t, doc.UserByEmail("a@x.com"))
	assert.Nil(t, doc.UserByEmail("b@x.com"))
	assert.NotNil(t, doc.TrackByID("t-1"))
	assert.Nil(t, doc.TrackByID("t-2"))
	assert.NotNil(t, doc.PlaylistByID("p-1"))
	assert.Nil(t, doc.PlaylistByID("p-2"))

	// Lookups return pointers into the document so callers can mutate in
	// place before saving.
	doc.TrackByID("t-1").IsLiked = true
	assert.True(t, doc.Tracks[0].IsLiked)
}
