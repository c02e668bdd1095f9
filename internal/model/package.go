package model

// ElmPackage is one entry from the package.elm-lang.org search index.
// The name has the form "author/package", e.g. "elm/http".
type ElmPackage struct {
	Name string `json:"name"`
}
