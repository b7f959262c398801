// Command rcg reconciles the stored rap chart against the live playlist and
// reports on the gender makeup of the credited artists.
//
// Read commands (show, counts, tally, diff, report, max-date) only need the
// local store. update, add-song, and gender call Spotify, Last.fm, and
// Wikipedia and need credentials. Exit codes: 0 success, 2 invalid input or
// configuration, 3 not found, 4 another run in progress, 5 consistency
// failure, 1 anything else.
package main
