package domain

// Identity is the authenticated caller, threaded explicitly into every
// state-changing operation instead of being read from ambient state.
type Identity struct {
	Email string
	Name  string
}

// IsZero reports whether no caller is authenticated.
func (i Identity) IsZero() bool { return i.Email == "" }
