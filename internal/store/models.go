package store

import "time"

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	AvatarURL *string    `json:"avatarUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Track struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Album       string    `json:"album"`
	Duration    int       `json:"duration"`
	URL         string    `json:"url"`
	CoverURL    string    `json:"coverUrl"`
	Genre       string    `json:"genre"`
	ReleaseDate string    `json:"releaseDate"`
	PlayCount   int       `json:"playCount"`
	IsLiked     bool      `json:"isLiked"`
	CreatedBy   *string   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Playlist embeds full copies of its tracks in Tracks, captured at insert
// time. Snapshots are never refreshed when the source track changes; clients
// rely on them staying stable. TrackIDs is kept in sync with Tracks
// membership but is its own sequence on the wire.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverURL    string    `json:"coverUrl"`
	Tracks      []Track   `json:"tracks"`
	TrackIDs    []string  `json:"trackIds"`
	CreatedBy   *string   `json:"createdBy"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Document is the whole persisted state: one JSON file, three collections.
type Document struct {
	Tracks    []Track    `json:"tracks"`
	Playlists []Playlist `json:"playlists"`
	Users     []User     `json:"users"`
}

func NewDocument() *Document {
	return &Document{
		Tracks:    []Track{},
		Playlists: []Playlist{},
		Users:     []User{},
	}
}

// normalize replaces nil collections with empty ones so callers can append
// and responses marshal as [] instead of null.
func (d *Document) normalize() {
	if d.Tracks == nil {
		d.Tracks = []Track{}
	}
	if d.Playlists == nil {
		d.Playlists = []Playlist{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
	for i := range d.Playlists {
		if d.Playlists[i].Tracks == nil {
			d.Playlists[i].Tracks = []Track{}
		}
		if d.Playlists[i].TrackIDs == nil {
			d.Playlists[i].TrackIDs = []string{}
		}
	}
}

// UserByID returns a pointer into the document, or nil.
func (d *Document) UserByID(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) UserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) TrackByID(id string) *Track {
	for i := range d.Tracks {
		if d.Tracks[i].ID == id {
			return &d.Tracks[i]
		}
	}
	return nil
}

func (d *Document) PlaylistByID(id string) *Playlist {
	for i := range d.Playlists {
		if d.Playlists[i].ID == id {
			return &d.Playlists[i]
		}
	}
	return nil
}
