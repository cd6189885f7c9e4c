// Package services defines the [Catalog] interface for video hosting providers and implements it for YouTube.
//
// # Catalog Interface
//
// The sync engine only needs two read operations from a provider: list the members of a playlist, and look up
// tags for a set of item IDs. Both are expressed by [Catalog] so the engine can be driven by a fake in tests.
//
// # YouTube Implementation
//
// [YouTubeService] wraps the generated youtube/v3 client. The API key is attached to every request by
// [transport.APIKey]; an endpoint override points the client at a test server.
//
//   - Listing: playlistItems.list with maxResults=50, following nextPageToken until it is empty
//   - Tags: videos.list with at most 50 IDs per call, see [Chunk]
//
// An optional rate limiter paces calls. Failed calls are not retried.
//
// # Error Handling
//
// Every API failure wraps [shared.ErrAPIRequest]. Some status codes add a more specific sentinel:
//   - [shared.ErrPlaylistNotFound] : 404 from the playlist listing
//   - [shared.ErrInvalidCredentials] : 400/403 caused by the API key
//   - [shared.ErrServiceUnavailable] : 5xx
package services
