// Package errors provides the construction-time and registry-time error
// handling used across the runtime: a three-class classification (Transient,
// Invalid, Fatal), standard sentinel errors, and Wrap helpers that produce
// "component.method: action failed: %w"-shaped messages.
//
// This package is deliberately not used on the hot send/receive path — that
// path reports outcomes in-band via MessageStatus (see the typeid package) so
// a blocked goroutine never has to allocate just to notice it was terminated.
// errors is for the things that happen once: bad configuration, duplicate
// registration, an unknown factory or edge endpoint.
package errors
