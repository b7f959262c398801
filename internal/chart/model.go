package chart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPrimaryArtist reports a track built without a primary credit.
	ErrNoPrimaryArtist = errors.New("no primary artist")
	// ErrMultiplePrimary reports a track built with more than one primary credit.
	ErrMultiplePrimary = errors.New("multiple primary artists")
)

// Role describes how an artist is credited on a track.
type Role int

const (
	Featured Role = iota
	Primary
)

func (r Role) String() string {
	if r == Primary {
		return "primary"
	}
	return "featured"
}

// Artist is a credited artist. ExternalID is the identity key; Name is the
// spelling observed at capture time.
type Artist struct {
	Name       string
	ExternalID string
	Role       Role
}

// Member is one constituent of a collective as recorded by group lookups.
type Member struct {
	Name       string
	ExternalID string
}

// AsFeatured converts a collective member into a featured credit.
func (m Member) AsFeatured() Artist {
	return Artist{Name: m.Name, ExternalID: m.ExternalID, Role: Featured}
}

// Track is an immutable song with its ordered credits.
type Track struct {
	songName   string
	externalID string
	credits    []Artist
	primary    int
}

// NewTrack validates credits and returns a Track. Exactly one credit must be
// Primary.
func NewTrack(songName, externalID string, credits []Artist) (Track, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return Track{}, fmt.Errorf("track %q: song external id required", songName)
	}
	primary := -1
	for idx, credit := range credits {
		if credit.Role != Primary {
			continue
		}
		if primary >= 0 {
			return Track{}, fmt.Errorf("track %s: %w", externalID, ErrMultiplePrimary)
		}
		primary = idx
	}
	if primary < 0 {
		return Track{}, fmt.Errorf("track %s (%q): %w", externalID, songName, ErrNoPrimaryArtist)
	}
	copied := make([]Artist, len(credits))
	copy(copied, credits)
	return Track{songName: songName, externalID: externalID, credits: copied, primary: primary}, nil
}

// SongName returns the captured song title.
func (t Track) SongName() string { return t.songName }

// ExternalID returns the song's identity key.
func (t Track) ExternalID() string { return t.externalID }

// Primary returns the primary credit.
func (t Track) Primary() Artist {
	if len(t.credits) == 0 {
		return Artist{}
	}
	return t.credits[t.primary]
}

// Credits returns a copy of the ordered credit list.
func (t Track) Credits() []Artist {
	out := make([]Artist, len(t.credits))
	copy(out, t.credits)
	return out
}

// Featured returns every non-primary credit in credit order.
func (t Track) Featured() []Artist {
	out := make([]Artist, 0, len(t.credits))
	for idx, credit := range t.credits {
		if idx == t.primary {
			continue
		}
		out = append(out, credit)
	}
	return out
}

// WithCredits returns a new Track with extra credits appended. Extra credits
// are always recorded as Featured.
func (t Track) WithCredits(extra ...Artist) Track {
	credits := make([]Artist, 0, len(t.credits)+len(extra))
	credits = append(credits, t.credits...)
	for _, credit := range extra {
		credit.Role = Featured
		credits = append(credits, credit)
	}
	return Track{songName: t.songName, externalID: t.externalID, credits: credits, primary: t.primary}
}

// Same reports whether two tracks share an identity.
func (t Track) Same(other Track) bool {
	return t.externalID == other.externalID
}

func (t Track) String() string {
	names := make([]string, 0, len(t.credits))
	for _, credit := range t.Featured() {
		names = append(names, credit.Name)
	}
	if len(names) == 0 {
		return fmt.Sprintf("%s - %s", t.songName, t.Primary().Name)
	}
	return fmt.Sprintf("%s - %s (with %s)", t.songName, t.Primary().Name, strings.Join(names, ", "))
}

// Appearance is one (track, credited artist) pair as persisted in the song
// table. It never takes part in chart equality.
type Appearance struct {
	SongExternalID   string
	SongName         string
	ArtistExternalID string
	ArtistName       string
	Role             Role
}

// Appearances flattens tracks into appearance rows, one per distinct
// (song, artist) pair. The first credit for a pair wins.
func Appearances(tracks []Track) []Appearance {
	type pair struct{ song, artist string }
	seen := make(map[pair]struct{})
	out := make([]Appearance, 0, len(tracks)*2)
	for _, track := range tracks {
		for _, credit := range track.credits {
			key := pair{track.externalID, credit.ExternalID}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Appearance{
				SongExternalID:   track.externalID,
				SongName:         track.songName,
				ArtistExternalID: credit.ExternalID,
				ArtistName:       credit.Name,
				Role:             credit.Role,
			})
		}
	}
	return out
}
