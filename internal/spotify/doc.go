// Package spotify reads chart snapshots from a Spotify playlist.
//
// It authenticates with the client-credentials flow (no user login), pages
// through the playlist's items, and converts each track into a
// snapshot.Entry with artists in credit order. Base and token URLs can be
// overridden so tests run against httptest servers.
package spotify
