package domain

// Role is an entry of the role catalog. Users reference roles; they never own them.
type Role struct {
	ID          int    `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description,omitempty"`
}
