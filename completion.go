package humdesk

import "context"

// TokenFunc receives one streamed text fragment. It is invoked once per
// token, in arrival order, from the goroutine running the stream.
type TokenFunc func(token string)

// CompletionRequest asks the assistant for a streamed answer.
type CompletionRequest struct {
	Message string
}

// Completer streams an assistant answer token by token.
//
// Complete blocks until the stream reaches its terminal marker, ends, fails,
// or ctx is cancelled. Tokens delivered before a failure are not retracted,
// but the call still returns the error so the caller can roll back.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest, onToken TokenFunc) error
}
