// Package oracle talks to text-generation backends and turns their output into
// onboarding questions, placement results and arena evaluations.
package oracle

import "context"

// Provider generates text for a prompt. Implementations return errors that
// Classify understands.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator is the narrow interface the Oracle needs. Chain implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc adapts a plain function into a Provider.
type ProviderFunc struct {
	ID string
	Fn func(ctx context.Context, prompt string) (string, error)
}

func (p ProviderFunc) Name() string { return p.ID }

func (p ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return p.Fn(ctx, prompt)
}
