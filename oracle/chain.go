package oracle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultAttempts       = 2
	DefaultInitialBackoff = 2 * time.Second
)

// AttemptHook observes every provider call. outcome is "ok" or an ErrorKind.
type AttemptHook func(provider, outcome string)

// Chain tries providers in order. Rate limits are retried on the same
// provider with exponential backoff until its attempt budget runs out, a
// missing model skips ahead, and a terminal error stops the chain.
type Chain struct {
	providers      []Provider
	attempts       int
	initialBackoff time.Duration
	onAttempt      AttemptHook
}

type ChainOption func(*Chain)

// WithAttempts sets how many calls each provider gets, first try included.
func WithAttempts(n int) ChainOption {
	return func(c *Chain) {
		if n > 0 {
			c.attempts = n
		}
	}
}

func WithInitialBackoff(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.initialBackoff = d
		}
	}
}

func WithAttemptHook(h AttemptHook) ChainOption {
	return func(c *Chain) {
		c.onAttempt = h
	}
}

func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		providers:      providers,
		attempts:       DefaultAttempts,
		initialBackoff: DefaultInitialBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	for _, p := range c.providers {
		log.WithField("provider", p.Name()).Debug("Oracle attempting generation")

		text, err := c.generateWith(ctx, p, prompt)
		if err == nil {
			return text, nil
		}

		kind := Classify(err)
		fields := log.Fields{"provider": p.Name(), "kind": kind.String()}
		if kind == Terminal {
			log.WithFields(fields).WithError(err).Error("Oracle provider failed terminally")
			return "", err
		}
		log.WithFields(fields).WithError(err).Warn("Oracle provider failed, trying next")
	}
	return "", ErrExhausted
}

func (c *Chain) generateWith(ctx context.Context, p Provider, prompt string) (string, error) {
	var text string

	operation := func() error {
		out, err := p.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(out) == "" {
			err = ErrEmpty
		}
		if err == nil {
			c.observe(p.Name(), "ok")
			text = out
			return nil
		}

		kind := Classify(err)
		c.observe(p.Name(), kind.String())
		if kind != Retryable {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx))
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return "", perm.Err
		}
		return "", err
	}
	return text, nil
}

func (c *Chain) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.initialBackoff * 8
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(c.attempts-1))
}

func (c *Chain) observe(provider, outcome string) {
	if c.onAttempt != nil {
		c.onAttempt(provider, outcome)
	}
}
