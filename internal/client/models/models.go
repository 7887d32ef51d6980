// Package models exposes the API wire types to the client packages.
package models

import (
	servermodels "github.com/dmitrijs2005/cinecollection/internal/server/models"
)

type (
	Entry        = servermodels.Entry
	EntryInput   = servermodels.EntryInput
	EntryPage    = servermodels.EntryPage
	UserView     = servermodels.UserView
	PosterUpload = servermodels.PosterUpload
)

const (
	TypeMovie  = servermodels.TypeMovie
	TypeTVShow = servermodels.TypeTVShow
)

// CanonicalType normalises user input such as "tv show" to the stored form.
func CanonicalType(s string) (string, bool) {
	return servermodels.CanonicalType(s)
}
