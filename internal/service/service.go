// File: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/config"
	"github.com/xkilldash9x/qaforge/internal/scenario"
	"github.com/xkilldash9x/qaforge/internal/synth"
)

var (
	// ErrTargetURLRequired is returned when neither the call nor the configuration supplies a target.
	ErrTargetURLRequired = errors.New("target URL is required")
	// ErrInvalidTargetURL wraps target URL validation failures.
	ErrInvalidTargetURL = errors.New("invalid target URL")
)

// Result is the outcome of one synthesis call. Degraded is set when the
// engine did not finish in time and the fallback sequence was returned.
type Result struct {
	Actions  schemas.ActionSequence
	Degraded bool
}

// Service is the boundary around the synthesis engine: it resolves the
// target, bounds each call in time and fans batches out over a worker limit.
type Service struct {
	engine      *synth.Engine
	timeout     time.Duration
	concurrency int
	defaultURL  string
	logger      *zap.Logger

	// assemble is the engine entry point; tests swap it to simulate slow synthesis.
	assemble func(scenario.Document, string) schemas.ActionSequence
}

// New creates a service from configuration.
func New(cfg config.Interface, logger *zap.Logger) (*Service, error) {
	engCfg := cfg.Engine()
	routing, err := synth.ParseEdgeCaseRouting(engCfg.EdgeCaseRouting)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := synth.NewEngine(synth.Options{
		MaxDepth:        engCfg.MaxDepth,
		MaxSteps:        engCfg.MaxSteps,
		LoadTimeoutMs:   engCfg.LoadTimeoutMs,
		EdgeCaseRouting: routing,
	}, logger)

	s := &Service{
		engine:      engine,
		timeout:     engCfg.SynthesisTimeout,
		concurrency: engCfg.WorkerConcurrency,
		defaultURL:  cfg.Server().DefaultTargetURL,
		logger:      logger.Named("service"),
		assemble:    engine.Assemble,
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}
	if s.concurrency <= 0 {
		s.concurrency = 1
	}
	return s, nil
}

// ResolveTargetURL applies the configured default and validates the result.
func (s *Service) ResolveTargetURL(targetURL string) (string, error) {
	if targetURL == "" {
		targetURL = s.defaultURL
	}
	if targetURL == "" {
		return "", ErrTargetURLRequired
	}
	if err := config.ValidateTargetURL(targetURL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTargetURL, err)
	}
	return targetURL, nil
}

// Generate compiles one document. The engine runs under the configured
// synthesis timeout; when that expires the fallback sequence is returned
// with Degraded set. Cancellation of ctx itself is reported as an error.
func (s *Service) Generate(ctx context.Context, doc scenario.Document, targetURL string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	target, err := s.ResolveTargetURL(targetURL)
	if err != nil {
		return Result{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Buffered so the worker can always finish, even after we stop waiting.
	done := make(chan schemas.ActionSequence, 1)
	go func() {
		done <- s.assemble(doc, target)
	}()

	select {
	case seq := <-done:
		s.logger.Debug("Synthesized action sequence.", zap.String("target_url", target), zap.Int("actions", len(seq)))
		return Result{Actions: seq}, nil
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		s.logger.Warn("Synthesis exceeded its time budget, returning fallback sequence.",
			zap.String("target_url", target),
			zap.Duration("timeout", s.timeout),
		)
		return Result{Actions: FallbackSequence(target, s.engine.Options().LoadTimeoutMs), Degraded: true}, nil
	}
}

// GenerateBatch compiles several documents against the same target with at
// most the configured number in flight. Results keep the input order.
func (s *Service) GenerateBatch(ctx context.Context, docs []scenario.Document, targetURL string) ([]Result, error) {
	results := make([]Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			res, err := s.Generate(gctx, doc, targetURL)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FallbackSequence is the minimal well-formed sequence: open the page, wait,
// check the body is visible and capture it. A non-positive loadTimeoutMs
// waits for the default budget.
func FallbackSequence(targetURL string, loadTimeoutMs int) schemas.ActionSequence {
	if targetURL == "" {
		targetURL = synth.BlankTarget
	}
	if loadTimeoutMs <= 0 {
		loadTimeoutMs = schemas.DefaultLoadTimeoutMs
	}
	return schemas.ActionSequence{
		schemas.Goto(targetURL),
		schemas.WaitForLoad(loadTimeoutMs),
		schemas.AssertVisible(synth.SelectorBody),
		schemas.Screenshot(schemas.PageSelector),
	}
}
