package admin

import (
	"errors"
	"sync"
)

// ErrWrongPasscode carries the inline error the admin view shows on a
// failed login.
var ErrWrongPasscode = errors.New("كلمة المرور غير صحيحة")

// Gate is the admin passcode check: one shared passcode, exact string
// equality, no lockout, no hashing. It is a UI gate, not a security
// boundary.
type Gate struct {
	passcode string

	mu            sync.Mutex
	authenticated bool
}

func NewGate(passcode string) *Gate {
	return &Gate{passcode: passcode}
}

// Login compares input against the configured passcode. Any mismatch
// returns ErrWrongPasscode and leaves the authenticated state false.
func (g *Gate) Login(input string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if input != g.passcode {
		return ErrWrongPasscode
	}

	g.authenticated = true
	return nil
}

// Verify is the stateless form of the same equality check, used for
// per-request passcode headers.
func (g *Gate) Verify(input string) bool {
	return input == g.passcode
}

// Authenticated reports the current gate state.
func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

// Logout resets the gate.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authenticated = false
}
