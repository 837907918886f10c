package community

import (
	"strings"
	"time"
)

// User is the engine's read-only view of an identity owned elsewhere.
type User struct {
	ID        int64
	Document  string
	Name      string
	Lastname  string
	Email     string
	Phone     string
	IsActive  bool
	Role      int
	CreatedAt time.Time
}

// FullName joins name and lastname.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Lastname)
}
