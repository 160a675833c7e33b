package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"validea/routes"
	"validea/services"

	"github.com/spf13/cobra"
)

func newEvaluateCommand(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one startup idea from a JSON file and print the result",
		Long: `Evaluate one startup idea without starting the server.

The file holds the same JSON object accepted by POST /evaluate. Use "-" to read
from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}

			raw, err := readIdea(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			svc, closeSvc, err := newEvaluationService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeSvc()

			return runEvaluate(cmd, svc, raw)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", `JSON file with the idea fields ("-" for stdin)`)
	return cmd
}

func runEvaluate(cmd *cobra.Command, ev routes.Evaluator, raw map[string]any) error {
	result, err := ev.Evaluate(cmd.Context(), raw)
	if err != nil {
		msg := services.MsgUpstreamFailure
		if errors.Is(err, services.ErrMissingRequiredFields) {
			msg = services.MsgMissingFields
		}
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"evaluation": result.Payload()})
}

// readIdea decodes the idea file. Anything other than a JSON object yields no fields.
func readIdea(stdin io.Reader, file string) (map[string]any, error) {
	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open idea file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read idea: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return raw, nil
}
