package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/app"
	"github.com/example/wordbook/internal/excel"
	"github.com/example/wordbook/pkg/models"
)

func newImportCmd() *cobra.Command {
	var (
		userID int64
		kind   string
		file   string
		cfg    = excel.DefaultImportConfig()
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import vocabulary from an xlsx or csv file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := models.Kind(kind)
			if !k.Valid() {
				return fmt.Errorf("unknown kind %q", kind)
			}
			rows, err := excel.ReadFile(file, cfg)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				report, err := a.Services.Vocabulary.Import(cmd.Context(), userID, k, rows)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, e := range report.Errors {
					fmt.Fprintln(out, e)
				}
				fmt.Fprintf(out, "added %d (restored %d), skipped %d, invalid %d\n",
					report.Added, report.Restored, report.Skipped, len(report.Errors))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "owner user id")
	cmd.Flags().StringVar(&kind, "kind", string(models.KindChinese), "chinese or english")
	cmd.Flags().StringVar(&file, "file", "", "xlsx or csv file")
	cmd.Flags().StringVar(&cfg.SheetName, "sheet", "", "sheet name (xlsx only, first sheet by default)")
	cmd.Flags().StringVar(&cfg.TextColumn, "text-col", cfg.TextColumn, "column holding the text")
	cmd.Flags().StringVar(&cfg.PhoneticColumn, "phonetic-col", cfg.PhoneticColumn, "column holding the transcription")
	cmd.Flags().StringVar(&cfg.MeaningColumn, "meaning-col", cfg.MeaningColumn, "column holding the meaning")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
