// Package srs implements the spaced-repetition core: word mastery transitions,
// review scheduling, study set selection, study ordering and the single-pass
// study session that ties them together.
//
// Everything except Session.Answer is pure. Time is always passed in by the
// caller and randomness comes from an injected Rand, so results are
// reproducible in tests.
package srs
