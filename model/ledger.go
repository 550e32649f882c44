package model

// Ledger is the durable keyed store for user records. Implementations
// must return copies, detect stale writes via User.Version and answer
// them with ErrConflictingWrite, and treat a zero-version put as an
// insert.
type Ledger interface {
	GetUser(id string) (*User, error)
	FindUserByLoginAddress(address string) (*User, error)
	PutUser(user *User) error
	ListUsers() ([]*User, error)
}

// Catalog yields the admin-owned global settings and plan catalog.
type Catalog interface {
	Settings() *GlobalSettings
	Plans() []*MiningPlan
	Plan(id string) (*MiningPlan, error)
}

// Situation carries one incoming bot request through a handler.
type Situation struct {
	User    *User
	Command string
	ChatID  int64
	FromID  int64
	Text    string

	// CallbackID is set when the request came from an inline button.
	CallbackID string
}

type Handler interface {
	Serve(situation *Situation) error
}

type HandlerFunc func(situation *Situation) error

func (f HandlerFunc) Serve(situation *Situation) error {
	return f(situation)
}
