package chart

import (
	"encoding/json"
	"fmt"
)

// MarshalText encodes the role as "primary" or "featured".
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts "primary" or "featured".
func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "primary":
		*r = Primary
	case "featured":
		*r = Featured
	default:
		return fmt.Errorf("unknown role %q", text)
	}
	return nil
}

type artistJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type trackJSON struct {
	SongID   string       `json:"song_id"`
	SongName string       `json:"song_name"`
	Artists  []artistJSON `json:"artists"`
}

// MarshalJSON exposes the track's identity and ordered credits.
func (t Track) MarshalJSON() ([]byte, error) {
	out := trackJSON{SongID: t.externalID, SongName: t.songName, Artists: make([]artistJSON, 0, len(t.credits))}
	for _, credit := range t.credits {
		out.Artists = append(out.Artists, artistJSON{ID: credit.ExternalID, Name: credit.Name, Role: credit.Role})
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a track through NewTrack so decoded values obey the
// same primary-credit rules.
func (t *Track) UnmarshalJSON(data []byte) error {
	var in trackJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	credits := make([]Artist, 0, len(in.Artists))
	for _, a := range in.Artists {
		credits = append(credits, Artist{Name: a.Name, ExternalID: a.ID, Role: a.Role})
	}
	track, err := NewTrack(in.SongName, in.SongID, credits)
	if err != nil {
		return err
	}
	*t = track
	return nil
}

// MarshalJSON encodes a chart as its date and tracks.
func (c Chart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   Date    `json:"date"`
		Tracks []Track `json:"tracks"`
	}{Date: c.date, Tracks: c.Tracks()})
}
