package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/qaforge/internal/mcp"
	"github.com/xkilldash9x/qaforge/internal/observability"
	"github.com/xkilldash9x/qaforge/internal/server"
	"github.com/xkilldash9x/qaforge/internal/service"
)

// newServeCmd creates the `serve` command.
func newServeCmd(a *app) *cobra.Command {
	var addr, defaultURL string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the action generation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.SetServerListenAddr(addr)
			}
			if defaultURL != "" {
				a.cfg.SetServerDefaultTargetURL(defaultURL)
			}
			svc, err := a.newService()
			if err != nil {
				return fmt.Errorf("failed to initialize synthesis service: %w", err)
			}
			return server.New(a.cfg.Server(), svc, observability.GetLogger()).Start(cmd.Context())
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.listen_addr)")
	serveCmd.Flags().StringVarP(&defaultURL, "url", "u", "", "default target URL for requests that omit one")
	return serveCmd
}

// newMCPCmd creates the `mcp` command.
func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the synthesis tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return fmt.Errorf("failed to initialize synthesis service: %w", err)
			}
			mcpCfg := a.cfg.MCP()
			if mcpCfg.ServerVersion == "dev" {
				mcpCfg.ServerVersion = Version
			}
			return mcp.NewServer(mcpCfg, svc, observability.GetLogger()).Serve(cmd.Context())
		},
	}
}

// newExamplesCmd creates the `examples` command.
func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Print every supported action kind with an example",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(service.ActionExamples(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode examples: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		},
	}
}
