// Package invariants gates expensive consistency checks behind the
// "invariants" build tag. Race-enabled test builds turn them on as well.
package invariants

// Check panics with err when invariants are enabled and err is non-nil.
// With invariants disabled it returns err unchanged so the caller can still
// refuse to hand out a broken structure.
func Check(err error) error {
	if Enabled && err != nil {
		panic(err)
	}
	return err
}
