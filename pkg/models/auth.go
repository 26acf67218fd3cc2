package models

// Role controls which console surfaces a user may reach. The engine is the
// final arbiter; the console only gates its own UI.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// RootUsername is the distinguished account that can never be deleted or
// re-roled. The console enforces this as an advisory guard; the engine
// enforces it authoritatively.
const RootUsername = "root"

// User is an operator account. Password is write-only: it is framed into
// the Basic-Auth header and sent on registration, but the engine never
// returns it.
type User struct {
	Username  string `json:"username"`
	Password  string `json:"userPassword,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username     string `json:"username"`
	UserPassword string `json:"userPassword"`
}
