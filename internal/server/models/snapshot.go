package models

// SyncSnapshot is the transfer payload for bidirectional reconciliation:
// the full set of decks and cards for one user, either as submitted by the
// client or as read back from the store after a commit. It is never stored
// as an entity itself.
type SyncSnapshot struct {
	Decks []Deck `json:"decks"`
	Cards []Card `json:"cards"`
}
