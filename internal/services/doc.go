// Package services implements the extraction clients that feed the pipeline.
//
// # Sources
//
// A [TrackSource] yields raw Spotify tracks and audio features; a [VideoSource] yields raw
// YouTube videos. Both return the loosely typed models.Raw* records: every field is passed
// through as received so that coercion happens in exactly one place, the transform package.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client-credentials grant through
// [clientcredentials.Config], whose client refreshes the app token automatically. Playlist
// items are paged by following the "next" link and audio features are requested in chunks of 100.
//
// # YouTube Implementation
//
// [YouTubeService] calls the YouTube Data API v3 with an API key. Regional charts come from
// videos?chart=mostPopular and directed artist/track queries from search followed by a videos
// lookup for statistics and content details. Videos are stamped with source_region or
// search_artist/search_track so the matcher can recognize their origin.
//
// # Error Handling
//
// Both clients pace requests with a [rate.Limiter] and map failures to shared errors:
//   - [shared.ErrMissingCredentials] : client id, secret or API key not configured
//   - [shared.ErrAuthFailed] : token request rejected
//   - [shared.ErrAPIRequest] : any non-2xx response
//   - [shared.ErrPlaylistNotFound] : Spotify playlist 404
//   - [shared.ErrQuotaExceeded] : YouTube 403 quotaExceeded
package services
