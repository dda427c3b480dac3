package vcs

// command is embedded by every fire-once builder command (§4.10): a setter
// mutates fields and returns the embedding type for chaining, while Call
// performs validation and the operation itself exactly once. Any setter or
// a second Call after the first Call has run reports ErrAlreadyCalled.
//
// Setters can't themselves return an error without breaking the chaining
// idiom the spec requires ("setters return this"), so a setter called after
// Call is a no-op that latches ErrAlreadyCalled into err; Call surfaces it
// on the way in, before doing anything else.
type command struct {
	called bool
	err    error
}

// guard is called by every setter before mutating state. If the command has
// already been called, it latches ErrAlreadyCalled and reports true so the
// setter can skip its mutation.
func (c *command) guard() bool {
	if c.called {
		if c.err == nil {
			c.err = ErrAlreadyCalled
		}
		return true
	}
	return false
}

// begin is called first thing by Call. It reports any error a setter
// latched, or ErrAlreadyCalled on reentry, and otherwise marks the command
// called so every subsequent setter or Call becomes a no-op/error.
func (c *command) begin() error {
	if c.called {
		return ErrAlreadyCalled
	}
	c.called = true
	return c.err
}
