package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/pkg/orchestrator"
)

func renderCmd(flags *rootFlags) *cobra.Command {
	var (
		stage    int
		output   string
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the HTML of a stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			engine, err := buildEngine(cfg, zap.NewNop(), nil)
			if err != nil {
				return err
			}
			res, err := engine.Process(cmd.Context(), orchestrator.Request{
				Action: orchestrator.ActionRender,
				Stage:  stage,
			})
			if err != nil {
				return err
			}

			var page string
			if fragment {
				page, err = res.Fragment()
			} else {
				page, err = res.HTML()
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), page)
				return err
			}
			if err := os.WriteFile(output, []byte(page), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().IntVar(&stage, "stage", 0, "stage to show (defaults to the form's start stage)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "write only the <form> element")
	return cmd
}
