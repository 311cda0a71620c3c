package result

import (
	"github.com/getfitter/go-service-core/empty"
	"github.com/getfitter/go-service-core/serviceerr"
)

// NotFoundIfEmpty turns Success(Empty) into Failure(NotFound). It is meant to
// be called once, at the outermost service method. Failures and populated
// successes are returned unchanged, so applying it twice is harmless.
//
// Collections should not go through here: an empty list is a valid answer.
func NotFoundIfEmpty[T any](r Result[T], entity string, id string) Result[T] {
	if r.IsFailure() || !empty.Is(r.value) {
		return r
	}
	return Failure[T](serviceerr.NotFound(entity, id))
}
