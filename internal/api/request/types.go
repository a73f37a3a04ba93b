package request

// CreateGuestRequest is the request body for creating a guest user
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MoveRequest is the request body for a tic-tac-toe move.
// Cell is a pointer so a missing field is distinguishable from cell 0.
type MoveRequest struct {
	Cell *int `json:"cell"`
}

// EmbedPrefsRequest is the request body for updating preview defaults
type EmbedPrefsRequest struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Color string `json:"color"`
}
