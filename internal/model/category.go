package model

// Category represents a transaction category in the `categories` table.
// Categories are global, not per-user, and cached under a single shared key.
type Category struct {
	ID    string  `json:"id"`              // categories.id
	Name  string  `json:"name"`            // categories.name
	Icon  *string `json:"icon,omitempty"`  // categories.icon (nullable)
	Color *string `json:"color,omitempty"` // categories.color (nullable)
}
