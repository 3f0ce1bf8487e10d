// Package combined provides interaction benchmarks that exercise the
// producer, the queue and its consumers together.
//
// These benchmarks are more representative of real-world performance
// than the per-package micro-benchmarks, as they capture the cost of
// blocking hand-off between goroutines.
package combined
