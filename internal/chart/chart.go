package chart

import "sort"

// Chart is the set of tracks charting on a date. Membership is keyed by song
// external id; iteration follows first-observed order.
type Chart struct {
	date   Date
	tracks []Track
	index  map[string]int
}

// NewChart builds a chart. A track whose id was already observed is ignored,
// so the first credits seen for a song win.
func NewChart(date Date, tracks ...Track) Chart {
	c := Chart{date: date, index: make(map[string]int, len(tracks))}
	for _, track := range tracks {
		if _, ok := c.index[track.externalID]; ok {
			continue
		}
		c.index[track.externalID] = len(c.tracks)
		c.tracks = append(c.tracks, track)
	}
	return c
}

// Date returns the chart date.
func (c Chart) Date() Date { return c.date }

// Len returns the number of distinct tracks.
func (c Chart) Len() int { return len(c.tracks) }

// Tracks returns a copy of the tracks in observation order.
func (c Chart) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Contains reports whether a song id charts.
func (c Chart) Contains(songID string) bool {
	_, ok := c.index[songID]
	return ok
}

// Track returns the charting track for a song id.
func (c Chart) Track(songID string) (Track, bool) {
	idx, ok := c.index[songID]
	if !ok {
		return Track{}, false
	}
	return c.tracks[idx], true
}

// IDs returns the sorted song ids.
func (c Chart) IDs() []string {
	ids := make([]string, 0, len(c.tracks))
	for _, track := range c.tracks {
		ids = append(ids, track.externalID)
	}
	sort.Strings(ids)
	return ids
}

// Equal is set equality over track identities. Dates and credits are not
// compared.
func (c Chart) Equal(other Chart) bool {
	if len(c.tracks) != len(other.tracks) {
		return false
	}
	for id := range c.index {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Union returns a chart dated like c holding c's tracks followed by any of
// other's tracks not already present.
func (c Chart) Union(other Chart) Chart {
	tracks := make([]Track, 0, len(c.tracks)+len(other.tracks))
	tracks = append(tracks, c.tracks...)
	tracks = append(tracks, other.tracks...)
	return NewChart(c.date, tracks...)
}

// Diff returns the tracks of next that are not in prev (added) and the tracks
// of prev that are not in next (removed). Order follows each input chart.
func Diff(next, prev Chart) (added, removed []Track) {
	for _, track := range next.tracks {
		if !prev.Contains(track.externalID) {
			added = append(added, track)
		}
	}
	for _, track := range prev.tracks {
		if !next.Contains(track.externalID) {
			removed = append(removed, track)
		}
	}
	return added, removed
}
