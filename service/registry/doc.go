// Package registry owns the fixed set of GPU slots. It is the only component
// allowed to mutate slot status, the bound worker handle and the slot log;
// every mutation is serialised by a single registry-wide lock.
package registry
