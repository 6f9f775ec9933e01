// Package pathlock provides a map of lazily created, reference-counted
// mutexes keyed by normalized file path.
//
// The bulk scanner and the live watcher can both attempt to process the same
// path at the same time. Serializing those attempts per path (instead of
// behind one global lock) keeps the guarantee that an older pipeline result
// can never overwrite a newer one, while distinct paths still process fully
// in parallel.
package pathlock
