package domain

// User is an application operator. Login is by username and numeric PIN; the
// PIN is stored bcrypt-hashed.
type User struct {
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	Username string `json:"username"`
	PINHash  string `json:"-"`
	IsActive bool   `json:"isActive"`
	AuditFields
}
