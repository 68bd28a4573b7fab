package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/scenario"
)

// Analyzer chains the external collaborators around the service: a scenario
// generator feeds the engine, and the resulting sequence is optionally
// rendered into a script and run.
type Analyzer struct {
	svc       *Service
	generator schemas.ScenarioGenerator
	renderer  schemas.ScriptRenderer
	runner    schemas.TestRunner
	logger    *zap.Logger
}

// NewAnalyzer wires the collaborators. renderer and runner may be nil.
func NewAnalyzer(svc *Service, generator schemas.ScenarioGenerator, renderer schemas.ScriptRenderer, runner schemas.TestRunner, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		svc:       svc,
		generator: generator,
		renderer:  renderer,
		runner:    runner,
		logger:    logger.Named("analyzer"),
	}
}

// Analyze derives scenarios for an application and compiles them. A failing
// or unparseable generator degrades to the fallback document instead of
// failing the call.
func (a *Analyzer) Analyze(ctx context.Context, req schemas.AnalyzeRequest) (*schemas.AnalyzeResult, error) {
	degraded := false
	var doc scenario.Document

	raw, err := a.generator.GenerateScenarios(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("Scenario generation failed, using fallback scenarios.", zap.String("app", req.AppName), zap.Error(err))
		doc, degraded = scenario.FallbackDocument(), true
	} else if doc, err = scenario.ParseModelOutput(raw); err != nil {
		a.logger.Warn("Could not parse generated scenarios, using fallback scenarios.", zap.String("app", req.AppName), zap.Error(err))
		degraded = true
	}

	res, err := a.svc.Generate(ctx, doc, req.TargetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize actions for %s: %w", req.AppName, err)
	}

	scenarios, _ := scenario.ToAny(doc.Root()).(map[string]any)
	result := &schemas.AnalyzeResult{
		Scenarios: scenarios,
		Actions:   res.Actions,
		Degraded:  degraded || res.Degraded,
	}

	if a.renderer == nil {
		return result, nil
	}
	script, err := a.renderer.RenderScript(ctx, req.AppName, res.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to render script for %s: %w", req.AppName, err)
	}
	result.Script = script

	if a.runner == nil {
		return result, nil
	}
	report, err := a.runner.RunScript(ctx, req.AppName, script)
	if err != nil {
		return nil, fmt.Errorf("failed to run script for %s: %w", req.AppName, err)
	}
	result.Report = report

	if report != nil {
		a.logger.Info("Analysis complete.",
			zap.String("app", req.AppName),
			zap.Int("actions", len(res.Actions)),
			zap.Bool("passed", report.Passed),
		)
	}
	return result, nil
}
