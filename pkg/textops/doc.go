// Package textops provides the text operations a planner can chain and the
// catalog that exposes them.
package textops
