package booking

// Result is the outcome of one workflow stage: either a value or a short
// user-facing failure message, never both. List stages additionally carry
// the opaque next-page token of the page they produced.
type Result[T any] struct {
	ok      bool
	value   T
	next    string
	message string
}

func Ok[T any](v T) Result[T] {
	return Result[T]{ok: true, value: v}
}

// OkPage is Ok with a continuation token attached. An empty token marks
// the last page.
func OkPage[T any](v T, next string) Result[T] {
	return Result[T]{ok: true, value: v, next: next}
}

func Fail[T any](message string) Result[T] {
	return Result[T]{message: message}
}

func (r Result[T]) Succeeded() bool { return r.ok }

// Value returns the success value; the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Next returns the continuation token carried by a list success.
func (r Result[T]) Next() string { return r.next }

// Message returns the user-facing failure message; empty on success.
func (r Result[T]) Message() string { return r.message }
