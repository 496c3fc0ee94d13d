// Package http serves the offline demo backend.
//
// The router exposes the subset of the Quebra-Tigela REST API that the
// client needs to run end to end:
//   - POST /api/auth/login: body {"email","password","accountType"}; answers
//     {"access_token","expires_at","user"} or 401.
//   - POST /api/auth/register/user and /api/auth/register/artist: create
//     accounts and answer the new profile with 201.
//   - /api/schedule...: list, get, create, batch create, patch, book, cancel,
//     delete, future and my-bookings over the in-memory schedule store. Every
//     schedule route needs a bearer token; slot mutations are limited to the
//     owning artist and booking to clients.
//   - GET /api/artists/search, /api/artists/{id}, /api/artists/{id}/profile
//     and GET /api/users/, /api/users/{id}: read-only directory lookups.
//
// Errors answer {"statusCode","message"} with the message in Portuguese.
package http
