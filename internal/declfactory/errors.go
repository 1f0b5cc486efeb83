package declfactory

import (
	"fmt"

	"jvmlower/internal/ir"
	"jvmlower/internal/types"
)

// InternalError is the panic value raised when a caller breaks a factory
// precondition. It is never a user diagnostic.
type InternalError struct {
	Op          string
	Expectation string
	// Dump is the structural dump of the offending declaration.
	Dump string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %s\n%s", e.Op, e.Expectation, e.Dump)
}

func fault(op string, decl ir.Declaration, in *types.Interner, format string, args ...any) {
	panic(&InternalError{
		Op:          op,
		Expectation: fmt.Sprintf(format, args...),
		Dump:        ir.DumpString(decl, in),
	})
}

// Catch runs fn and returns the *InternalError it panicked with, if any.
// Other panics propagate unchanged.
func Catch(fn func()) (err *InternalError) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InternalError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
