package openlibrary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTimeout is returned when an upstream call exceeds its wall-clock bound.
var ErrTimeout = errors.New("open library request timed out")

// UpstreamError reports a failed upstream call: a non-2xx response (with the
// offending status code, or both codes for the paired edition lookup) or a
// transport-level failure with no status at all.
type UpstreamError struct {
	URL         string
	StatusCodes []int
	Err         error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("open library upstream error")
	if len(e.StatusCodes) > 0 {
		codes := make([]string, len(e.StatusCodes))
		for i, c := range e.StatusCodes {
			codes[i] = strconv.Itoa(c)
		}
		fmt.Fprintf(&b, " (status %s)", strings.Join(codes, ", "))
	}
	if e.URL != "" {
		fmt.Fprintf(&b, ": %s", e.URL)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
