package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run <product-url>",
	Short: "Run the full analysis pipeline for one product URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("run"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := newEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, args[0])
		if err != nil {
			return err
		}

		if runJSON {
			out, marshalErr := json.MarshalIndent(result, "", "  ")
			if marshalErr != nil {
				return marshalErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Report)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(runCmd)
}
