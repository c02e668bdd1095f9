package model

// Exhibit is a user-curated package example collection, addressed by name.
type Exhibit struct {
	Name string `json:"name"`
}
