package evaluator

import "time"

// nowFunc is a package-level indirection over the wall clock (nanoseconds
// since epoch) so tests can pin ProcessTime without sleeping.
var nowFunc = func() int64 {
	return time.Now().UnixNano()
}
