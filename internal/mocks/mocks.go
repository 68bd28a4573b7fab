// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	return m.Called().Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Engine() config.EngineConfig {
	return m.Called().Get(0).(config.EngineConfig)
}

func (m *MockConfig) Server() config.ServerConfig {
	return m.Called().Get(0).(config.ServerConfig)
}

func (m *MockConfig) MCP() config.MCPConfig {
	return m.Called().Get(0).(config.MCPConfig)
}

// --- Setters ---

func (m *MockConfig) SetEngineEdgeCaseRouting(r string)  { m.Called(r) }
func (m *MockConfig) SetEngineWorkerConcurrency(w int)   { m.Called(w) }
func (m *MockConfig) SetServerListenAddr(addr string)    { m.Called(addr) }
func (m *MockConfig) SetServerDefaultTargetURL(u string) { m.Called(u) }

// -- Scenario Generator Mock --

// MockScenarioGenerator mocks the schemas.ScenarioGenerator interface.
type MockScenarioGenerator struct {
	mock.Mock
}

// GenerateScenarios honours cancellation before consulting the expectations.
func (m *MockScenarioGenerator) GenerateScenarios(ctx context.Context, req schemas.AnalyzeRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// -- Script Renderer Mock --

// MockScriptRenderer mocks the schemas.ScriptRenderer interface.
type MockScriptRenderer struct {
	mock.Mock
}

func (m *MockScriptRenderer) RenderScript(ctx context.Context, name string, actions schemas.ActionSequence) (string, error) {
	args := m.Called(ctx, name, actions)
	return args.String(0), args.Error(1)
}

// -- Test Runner Mock --

// MockTestRunner mocks the schemas.TestRunner interface.
type MockTestRunner struct {
	mock.Mock
}

func (m *MockTestRunner) RunScript(ctx context.Context, name, script string) (*schemas.RunReport, error) {
	args := m.Called(ctx, name, script)
	if r, ok := args.Get(0).(*schemas.RunReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ config.Interface          = (*MockConfig)(nil)
	_ schemas.ScenarioGenerator = (*MockScenarioGenerator)(nil)
	_ schemas.ScriptRenderer    = (*MockScriptRenderer)(nil)
	_ schemas.TestRunner        = (*MockTestRunner)(nil)
)
