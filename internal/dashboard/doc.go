// Package dashboard builds the listening dashboard view model.
//
// A [Builder] runs one linear pipeline against a [services.Catalog]:
//
//  1. top tracks for the configured time range
//  2. audio features for those tracks, in top-tracks order
//  3. recommendations seeded by at most five top tracks
//  4. full details (album, artists, URL) for the recommended tracks
//
// The responses are reshaped into a feature table indexed by track name and a recommendation table,
// and every feature column is summarized. Any failure aborts the build: callers never see a partial view.
//
// Views are never cached. Each render recomputes the whole pipeline.
//
// # Progress
//
// Build emits [ProgressUpdate] values on an optional channel without blocking, so the TUI can show
// which request is in flight.
package dashboard
