package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/scenario"
	"github.com/xkilldash9x/qaforge/internal/service"
)

const (
	ToolGenerateActions = "generate_actions"
	ToolActionExamples  = "action_examples"
)

// ExamplesInput takes no arguments.
type ExamplesInput struct{}

func generateActionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolGenerateActions,
		Description: "Compile a test scenario document into an ordered browser automation action sequence.",
	}
}

func actionExamplesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolActionExamples,
		Description: "List every supported browser action kind with a description and an example.",
	}
}

// GenerateActionsHandler runs the synthesis service for one tool call.
func GenerateActionsHandler(svc *service.Service, logger *zap.Logger) mcp.ToolHandlerFor[schemas.GenerateActionsRequest, schemas.GenerateActionsResponse] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input schemas.GenerateActionsRequest) (*mcp.CallToolResult, schemas.GenerateActionsResponse, error) {
		invocationID := uuid.NewString()
		if input.Scenarios == nil {
			return nil, schemas.GenerateActionsResponse{}, fmt.Errorf("scenarios is required")
		}

		doc := scenario.NewDocument(scenario.FromAny(input.Scenarios))
		res, err := svc.Generate(ctx, doc, input.TargetURL)
		if err != nil {
			logger.Warn("Tool call failed", zap.String("tool", ToolGenerateActions), zap.String("invocation_id", invocationID), zap.Error(err))
			return nil, schemas.GenerateActionsResponse{}, fmt.Errorf("generate actions: %w", err)
		}

		logger.Info("Tool call completed",
			zap.String("tool", ToolGenerateActions),
			zap.String("invocation_id", invocationID),
			zap.Int("count", len(res.Actions)),
			zap.Bool("degraded", res.Degraded),
		)
		return nil, schemas.GenerateActionsResponse{
			Actions:  res.Actions,
			Degraded: res.Degraded,
			Count:    len(res.Actions),
		}, nil
	}
}

// ActionExamplesHandler serves the action catalog.
func ActionExamplesHandler() mcp.ToolHandlerFor[ExamplesInput, schemas.ActionExamplesResponse] {
	return func(context.Context, *mcp.CallToolRequest, ExamplesInput) (*mcp.CallToolResult, schemas.ActionExamplesResponse, error) {
		return nil, schemas.ActionExamplesResponse{Examples: service.ActionExamples()}, nil
	}
}
