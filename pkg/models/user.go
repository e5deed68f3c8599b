package models

// User identifies a dataset curator by a unique name.
type User struct {
	UserName string `json:"user_name"`
}
