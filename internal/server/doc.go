// Package server serves the web dashboard and handles OAuth callbacks.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// Every route passes through [RequestLogger] and [Recoverer]. The two dashboard routes are additionally
// wrapped by [RateLimit], since each render costs four Spotify API calls.
//
// # Dashboard
//
// [Server] recomputes the dashboard on every request and keeps no view state. GET / renders HTML with an
// inline SVG chart ([NewChart]) and GET /api/dashboard returns the same view as JSON. Both accept
// time_range and limit query parameters.
//
// Failed renders show an error page without chart or tables. Authorization errors respond 401 and link
// to /auth/login.
//
// # Authorization
//
// The web flow stores its state in an expiring cache, so each state is accepted once and only
// for ten minutes. Tokens are saved through a [services.TokenStore].
//
// [OAuthHandler] serves the command line flow: `spotdash auth` starts a temporary server, opens the
// browser and waits for exactly one callback.
package server
