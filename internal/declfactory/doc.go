// Package declfactory creates the synthetic declarations JVM lowering needs:
// enum entry fields, outer-instance fields of inner classes, singleton
// instance fields, inner class constructors taking the outer instance, and
// file facade classes.
//
// A Factory memoizes every declaration it creates by the identity of the node
// it was created for, so all lowering passes that ask for "the field of enum
// entry RED" get the same *ir.Field. Later passes compare declarations by
// pointer, so handing out a second copy would split one JVM slot in two.
//
// A Factory serves one compilation unit for one pipeline run and is not safe
// for concurrent use. Misuse (asking for the outer field of a class that is
// not inner, for example) is a bug in the calling pass; the factory panics
// with *InternalError and Catch turns that back into an error at the
// pipeline boundary.
package declfactory
