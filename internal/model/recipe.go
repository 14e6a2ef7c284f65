package model

// UnsavedID marks a recipe that has not been persisted by the server yet.
const UnsavedID = 0

// Placeholder text used for records created from the list view.
const (
	PlaceholderTitle = "Uus retsept"
	PlaceholderBody  = "Uue retsepti kirjeldus"
)

// Recipe is the domain model for a recipe entry. The server assigns IDs.
type Recipe struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// NewPlaceholder returns the record sent to the server to request a new recipe.
func NewPlaceholder() Recipe {
	return Recipe{ID: UnsavedID, Title: PlaceholderTitle, Body: PlaceholderBody}
}

// IsPersisted reports whether the server has assigned an ID.
func (r Recipe) IsPersisted() bool { return r.ID != UnsavedID }
