package models

// Item is a single media entry competing in the arena. The ID is opaque to
// the engine; the embedding shell decides what it points at (a file path,
// an upload key, an URL).
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
