package model

import "time"

// Tournament is one distinct tournament discovered through scraping. The
// dbKey identifies it on the upstream site and is unique in the registry.
// The sidKey is a session key that can rotate between scrapes.
type Tournament struct {
	DBKey    string    `json:"dbKey"`
	SidKey   string    `json:"sidKey"`
	Name     string    `json:"tournamentName,omitempty"`
	BaseLink string    `json:"baseLink"`
	Created  time.Time `json:"createdAt"`
}

// TournamentKeys is what a key-resolution scrape yields: the identity keys
// plus the round the upstream page is currently showing.
type TournamentKeys struct {
	DBKey  string `json:"dbKey"`
	SidKey string `json:"sidKey"`
	Round  int    `json:"round"`
	Name   string `json:"tournamentName,omitempty"`
}

type Arbiter struct {
	ID      int32     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Created time.Time `json:"createdAt"`
}
