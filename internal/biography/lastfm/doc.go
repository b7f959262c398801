// Package lastfm provides the minimal Last.fm API client used as biography
// source A.
//
// It calls artist.getInfo with autocorrect enabled and returns the plain
// biography text. Last.fm's "artist not found" error maps to
// gender.ErrNotFound; an empty biography, or one that is nothing but the
// "Read more on Last.fm" link, maps to gender.ErrNoBio. Options allow tests
// to supply custom HTTP clients.
package lastfm
