// Package llm holds the contract between the use case and completion backends.
package llm

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=llm.go -destination=llm_mock.gen.go -package=llm

import "context"

// Request is a single completion call. Sampling parameters are chosen by the
// caller per call.
type Request struct {
	Model       string
	Prompt      string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Client sends an instruction to a model and returns its text answer.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
