// Package throttle counts failed attempts per key inside a sliding window so
// the login form can lock out a remote address after repeated failures.
package throttle
