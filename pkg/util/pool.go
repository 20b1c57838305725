package util

import "runtime"

const (
	minPoolSize = 4
	maxPoolSize = 32
)

// GetOptimalPoolSize sizes CPU-bound pools as 2x the core count, clamped to
// [4, 32]. Parsing goes through cgo, so twice the cores keeps every core
// busy while goroutines sit in C calls.
//
// Both the parser pools and the transform worker pool use this value; a
// worker pool larger than the parser pool would leave workers blocked on
// acquire.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < minPoolSize {
		return minPoolSize
	}
	if size > maxPoolSize {
		return maxPoolSize
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
