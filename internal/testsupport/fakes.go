package testsupport

import (
	"context"
	"fmt"
	"sync"

	"rcg/internal/chart"
	"rcg/internal/gender"
	"rcg/internal/snapshot"
)

// FakePlaylist serves a fixed snapshot and counts fetches.
type FakePlaylist struct {
	mu      sync.Mutex
	entries []snapshot.Entry
	extra   map[string]snapshot.Entry
	Err     error
	Fetches int
}

// NewFakePlaylist builds a playlist from tracks in order.
func NewFakePlaylist(tracks ...chart.Track) *FakePlaylist {
	p := &FakePlaylist{extra: make(map[string]snapshot.Entry)}
	p.SetTracks(tracks...)
	return p
}

// SetTracks replaces the snapshot served by Entries.
func (p *FakePlaylist) SetTracks(tracks ...chart.Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = p.entries[:0]
	for _, track := range tracks {
		p.entries = append(p.entries, EntryFor(track))
	}
}

// AddSingle makes a track available through Entry without charting it.
func (p *FakePlaylist) AddSingle(track chart.Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extra[track.ExternalID()] = EntryFor(track)
}

func (p *FakePlaylist) Entries(context.Context) ([]snapshot.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Fetches++
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]snapshot.Entry, len(p.entries))
	copy(out, p.entries)
	return out, nil
}

func (p *FakePlaylist) Entry(_ context.Context, songID string) (snapshot.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.extra[songID]; ok {
		return entry, nil
	}
	for _, entry := range p.entries {
		if entry.SongID == songID {
			return entry, nil
		}
	}
	return snapshot.Entry{}, fmt.Errorf("track %s not found", songID)
}

// EntryFor converts a track back into its playlist payload.
func EntryFor(track chart.Track) snapshot.Entry {
	entry := snapshot.Entry{SongID: track.ExternalID(), SongName: track.SongName()}
	for _, credit := range track.Credits() {
		entry.Artists = append(entry.Artists, snapshot.Credit{ArtistID: credit.ExternalID, ArtistName: credit.Name})
	}
	return entry
}

// FakeBiography answers biography lookups from a fixed map. Unknown names
// return gender.ErrNotFound.
type FakeBiography struct {
	SourceName string
	Texts      map[string]string
	Errors     map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (b *FakeBiography) Name() string {
	if b.SourceName == "" {
		return "fake"
	}
	return b.SourceName
}

func (b *FakeBiography) Biography(_ context.Context, artistName string) (string, error) {
	b.mu.Lock()
	if b.calls == nil {
		b.calls = make(map[string]int)
	}
	b.calls[artistName]++
	b.mu.Unlock()
	if err, ok := b.Errors[artistName]; ok {
		return "", err
	}
	if text, ok := b.Texts[artistName]; ok {
		return text, nil
	}
	return "", gender.ErrNotFound
}

// Calls reports how often artistName was looked up.
func (b *FakeBiography) Calls(artistName string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[artistName]
}

// TotalCalls reports the number of lookups across all names.
func (b *FakeBiography) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}
