// Package provider implements the summary provider: it turns extracted article
// text into a Summary whose points carry word-level timings.
//
// The summarizer is deliberately a stub. Text is split on sentence
// terminators, short fragments are dropped, the first few remaining fragments
// become points, and every word receives the same fixed duration so that
// timings are contiguous. A configurable delay simulates the latency of a real
// backend. There are no retries and no partial results.
package provider
