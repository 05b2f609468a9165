package models

import "time"

// DID is a self-describing identifier for the vault user. The identifier and
// public key are opaque to the rest of the engine; only the delegation server
// interprets them.
type DID struct {
	ID        string    `json:"id"`
	PublicKey string    `json:"publicKey"`
	CreatedAt time.Time `json:"createdAt"`
}
