package ai

import "context"

// Completer is the narrow interface the scorer depends on: one prompt in,
// one raw text completion out. Transport and model concerns live behind it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
