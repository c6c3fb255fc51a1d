// Package allocator groups items into capacity-bounded bins using the
// first-fit-decreasing heuristic. It is used to batch request payloads that
// must stay under a per-request item limit. The heuristic is an
// approximation; it does not guarantee a minimal number of bins.
package allocator
