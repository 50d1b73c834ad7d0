package models

// Flashcard is a transient front/back pair produced by the generator before
// persistence. It carries no identity; it becomes a Card only when written
// to the store.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
