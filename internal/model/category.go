package model

// Category is a user-defined tag (name, color, icon) under which events are logged.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// DefaultCategories seeds a fresh install.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cold", Name: "Common Cold", Color: "#ffafcc", Icon: "Thermometer"},
		{ID: "rejection", Name: "Rejection", Color: "#a2d2ff", Icon: "XCircle"},
		{ID: "silly-google", Name: "Silly Google Search", Color: "#ffd60a", Icon: "Search"},
		{ID: "oops", Name: "Social Awkwardness", Color: "#bdb2ff", Icon: "UserX"},
	}
}
