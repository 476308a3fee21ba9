package entity

type User struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	Disabled     bool   `json:"disabled"`
	PasswordHash string `json:"-"`
}
