// Package client talks to the CineCollection REST API and bootstraps the
// client's local SQLite store.
//
// HTTPClient implements API over net/http. Failed calls come back as errors
// that match one of the sentinels with errors.Is: ErrBadRequest (carrying the
// server's message), ErrUnauthorized, ErrNotFound, ErrUnavailable for
// transport failures, and ErrServer for everything else. *APIError exposes
// the status code and message when a caller needs them.
//
// InitDatabase opens the SQLite file and applies the embedded goose
// migrations; NewRepositories binds the local repositories to it.
package client
