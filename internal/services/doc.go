// Package services defines the [Catalog] interface consumed by the dashboard pipeline and implements it for Spotify.
//
// # Catalog Interface
//
// A [Catalog] performs the four reads a dashboard render needs: top tracks, audio features,
// recommendations and track details. Implementations never retry and never cache.
//
// # Spotify Implementation
//
// [SpotifyService] wraps the zmb3/spotify SDK. The SDK's HTTP client comes from [oauth2.NewClient],
// so expired access tokens are refreshed transparently when a refresh token is available.
// Refreshed tokens are handed to the callback registered with [SpotifyService.SetTokenRefreshCallback]
// so the token store stays current.
//
// # OAuth Service Extension
//
// [OAuthService] extends Catalog with the authorization-code flow used by the CLI and the web server.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : 401 from the API or a failed token refresh
//   - [shared.ErrAuthFailed] : 403 from the API or rejected client credentials
//   - [shared.ErrRateLimited] : 429 from the API
//   - [shared.ErrAPIRequest] : any other request failure
//   - [shared.ErrInvalidArgument] : limits, time ranges or id lists out of bounds
package services
