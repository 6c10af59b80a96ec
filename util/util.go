package util

import (
	"time"

	"github.com/sealvault/go-sealvault/service/logger"
)

// ToPointer returns a pointer to the given value
func ToPointer[T any](v T) *T {
	return &v
}

// FromPointer returns the value of the given pointer, or the zero value if the pointer is nil
func FromPointer[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Contains returns true if the slice contains the given element
func Contains[T comparable](s []T, e T) bool {
	for _, v := range s {
		if v == e {
			return true
		}
	}
	return false
}

// Track the time it takes to execute a function
func Track(s string, startTime time.Time) {
	endTime := time.Now()
	logger.For(nil).Debugf("%s took %v", s, endTime.Sub(startTime))
}
