package conversation

import "context"

// Provider is the capability used to turn a linear message thread into one
// or more candidate responses. Implementations handle provider-specific
// wire formats; the core only depends on this signature, which keeps
// Complete a pure function of (tree state, provider, parameters) and makes
// completions testable with a fake.
//
// The thread is ordered root to leaf. The returned strings correspond to the
// samples requested through the parameters' N, in provider order.
type Provider interface {
	Complete(ctx context.Context, thread []*Message, parameters CompletionParameters) ([]string, error)
}
