package cmd

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/internal/observability"
	"github.com/xkilldash9x/qaforge/internal/scenario"
	"github.com/xkilldash9x/qaforge/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// stdinArg names standard input among the synth arguments.
const stdinArg = "-"

type synthOptions struct {
	targetURL string
	raw       bool
	output    string
	format    string
	routing   string
}

// newSynthCmd creates the `synth` command.
func newSynthCmd(a *app) *cobra.Command {
	opts := &synthOptions{}

	synthCmd := &cobra.Command{
		Use:   "synth [files...]",
		Short: "Compile scenario documents into action sequences",
		Long: `Reads one or more scenario documents (JSON or YAML, chosen by extension) and
prints one JSON action sequence per document, in argument order. With no
files, or with "-", the document is read from standard input.

With --raw the input is treated as free-form model output: the JSON object is
extracted from it first, and the generic fallback scenarios are used when
nothing usable is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.routing != "" {
				a.cfg.SetEngineEdgeCaseRouting(opts.routing)
			}
			return runSynth(cmd, a, opts, args)
		},
	}

	synthCmd.Flags().StringVarP(&opts.targetURL, "url", "u", "", "target URL (default from server.default_target_url)")
	synthCmd.Flags().BoolVar(&opts.raw, "raw", false, "treat input as raw model output")
	synthCmd.Flags().StringVarP(&opts.output, "output", "o", "", "write results to this file instead of stdout")
	synthCmd.Flags().StringVar(&opts.format, "format", string(scenario.FormatJSON), "format of documents read from stdin (json or yaml)")
	synthCmd.Flags().StringVar(&opts.routing, "edge-case-routing", "", "route edge cases through 'interaction' or 'capability' rules")
	return synthCmd
}

func runSynth(cmd *cobra.Command, a *app, opts *synthOptions, args []string) error {
	ctx := cmd.Context()
	logger := observability.GetLogger().Named("synth_cmd")

	if len(args) == 0 {
		args = []string{stdinArg}
	}

	docs := make([]scenario.Document, 0, len(args))
	for _, arg := range args {
		doc, err := loadDocument(cmd.InOrStdin(), arg, opts, logger)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	svc, err := a.newService()
	if err != nil {
		return fmt.Errorf("failed to initialize synthesis service: %w", err)
	}
	results, err := svc.GenerateBatch(ctx, docs, opts.targetURL)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if opts.output == "" {
		if err := writeResults(cmd.OutOrStdout(), results, args, logger); err != nil {
			return err
		}
	} else if err := writeResultsFile(opts.output, results, args, logger); err != nil {
		return err
	}
	logger.Info("Synthesis complete.", zap.Int("documents", len(results)))
	return nil
}

// createOutput opens the -o destination. Tests replace it.
var createOutput = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeResultsFile writes the results to the file named by output.
func writeResultsFile(output string, results []service.Result, args []string, logger *zap.Logger) error {
	path, err := homedir.Expand(output)
	if err != nil {
		return fmt.Errorf("failed to expand output path %q: %w", output, err)
	}
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeResults(f, results, args, logger); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// writeResults prints one indented sequence per input, in input order.
func writeResults(out io.Writer, results []service.Result, args []string, logger *zap.Logger) error {
	for i, res := range results {
		if res.Degraded {
			logger.Warn("Synthesis timed out, wrote fallback sequence.", zap.String("input", args[i]))
		}
		data, err := json.MarshalIndent(res.Actions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode actions for %s: %w", args[i], err)
		}
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write actions: %w", err)
		}
	}
	return nil
}

// loadDocument reads one argument (a path or stdin) into a document.
func loadDocument(stdin io.Reader, arg string, opts *synthOptions, logger *zap.Logger) (scenario.Document, error) {
	var (
		data   []byte
		err    error
		format = scenario.Format(opts.format)
	)
	if arg == stdinArg {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(arg)
		format = scenario.FormatFromPath(arg)
	}
	if err != nil {
		return scenario.Document{}, fmt.Errorf("failed to read %s: %w", arg, err)
	}

	if opts.raw {
		doc, perr := scenario.ParseModelOutput(string(data))
		if perr != nil {
			logger.Warn("Could not parse model output, using fallback scenarios.", zap.String("input", arg), zap.Error(perr))
		}
		return doc, nil
	}

	root, err := scenario.Decode(data, format)
	if err != nil {
		return scenario.Document{}, fmt.Errorf("failed to decode %s: %w", arg, err)
	}
	return scenario.NewDocument(root), nil
}
