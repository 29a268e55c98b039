package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/store"
)

var (
	analyzeCompany string
	analyzeSave    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze one website and print the report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), secs(cfg.Server.RequestTimeoutSecs))
		defer cancel()

		env, err := initApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.AnalysisRequest{URL: args[0], CompanyName: analyzeCompany, SaveToCRM: analyzeSave}
		intel, err := env.Analyzer.Analyze(ctx, req)
		var pe *store.PersistenceError
		if err != nil && !errors.As(err, &pe) {
			return err
		}
		if intel != nil {
			if werr := writeReport(cmd.OutOrStdout(), intel); werr != nil {
				return werr
			}
		}
		return err
	},
}

func writeReport(w io.Writer, intel *model.IntelligenceReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(intel), "write report")
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "known company name")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "save the report to the configured store")
	rootCmd.AddCommand(analyzeCmd)
}
