// Package playback drives word-by-word playback of a summary.
//
// A Scheduler walks the word timings of the active point on a virtual clock,
// reporting each step to a View. It owns exactly one pending timer at a time;
// every transition (pause, navigation, close) bumps a generation counter and
// stops that timer, so a callback that was already in flight can never apply
// a stale highlight. Timer callbacks and transport calls are serialized by a
// single mutex, which keeps the model logically single threaded.
//
// Resuming after a pause restarts the word that was active from its start.
package playback
