package model

// Actor is a resolved identity performing an operation.
// Actors are preloaded at startup; there is no runtime creation.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
