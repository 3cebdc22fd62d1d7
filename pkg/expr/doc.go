// Package expr implements the path template language used for image
// directories, image file names and inserted link text.
//
// A template is parsed once into an immutable Node tree and evaluated any
// number of times against an Env. Evaluation is pure: the same tree may be
// shared between goroutines.
package expr
