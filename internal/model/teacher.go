package model

type Teacher struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	IsBuiltIn    bool   `json:"isBuiltIn"`
}
