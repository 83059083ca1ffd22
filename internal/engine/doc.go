// Package engine is the consumer facade over the dex, rules and learnset
// packages.
//
// An Engine owns one mod Registry together with one rules.Compiler and one
// learnset.Checker per mod, each created on first use. Every public method
// takes the read lock; Reload takes the write lock and swaps in a freshly
// loaded registry, tag registry and compiler set, so readers observe either
// the old data or the new data and never a mix.
//
// A failed Reload leaves the previous data in place.
package engine
