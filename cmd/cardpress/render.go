package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Malikabakr/bank-project/pkg/cli"
	"github.com/Malikabakr/bank-project/pkg/config"
	"github.com/Malikabakr/bank-project/pkg/render"
	"github.com/Malikabakr/bank-project/pkg/spreadsheet"
)

var renderFlags struct {
	file   string
	kind   string
	outDir string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a workbook to PDFs locally",
	Long: `Render every record of a spreadsheet to PDF files on disk, without
starting the server. Output files are not subject to retention sweeping.

Examples:
  # Render platinum cards into ./pdfs
  cardpress render --file cards.xlsx --kind platinum --out ./pdfs

  # Render the a4 layout
  cardpress render --file onboarding.xlsx --kind a4 --out ./pdfs`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlags.file, "file", "f", "", "workbook to render (required)")
	renderCmd.Flags().StringVarP(&renderFlags.kind, "kind", "k", "", "card kind (required)")
	renderCmd.Flags().StringVarP(&renderFlags.outDir, "out", "o", ".", "output directory")
	_ = renderCmd.MarkFlagRequired("file")
	_ = renderCmd.MarkFlagRequired("kind")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	setupLogging(cfg)

	kind, err := render.ParseKind(renderFlags.kind)
	if err != nil {
		return err
	}

	f, err := os.Open(renderFlags.file)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := spreadsheet.Parse(f, filepath.Base(renderFlags.file))
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	if err := os.MkdirAll(renderFlags.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	renderer := render.NewRenderer(render.Options{
		ArabicFontPath: cfg.Render.ArabicFont,
		LatinFontPath:  cfg.Render.LatinFont,
	})

	progress := cli.NewProgressReporter(cmd.OutOrStdout())
	progress.Start(int64(len(sheet.Rows)))

	rendered, skipped := 0, 0
	for i, row := range sheet.Rows {
		pdf, err := renderer.RenderCard(row, kind)
		if err != nil {
			skipped++
			progress.Error(fmt.Errorf("row %d: %w", i+1, err))
			continue
		}

		name := localOutputName(row, i)
		if err := os.WriteFile(filepath.Join(renderFlags.outDir, name), pdf, 0o644); err != nil {
			skipped++
			progress.Error(fmt.Errorf("row %d: %w", i+1, err))
			continue
		}

		rendered++
		progress.Update(int64(i + 1))
	}
	progress.Finish()

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d of %d rows into %s\n",
		rendered, len(sheet.Rows), renderFlags.outDir)

	if rendered == 0 {
		return cli.NewCommandError("render", fmt.Errorf("no rows could be rendered"))
	}
	if skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d rows\n", skipped)
	}
	return nil
}

// localOutputName builds a filesystem-safe name for a rendered row.
func localOutputName(row spreadsheet.Row, index int) string {
	name := strings.TrimSpace(row.Get(spreadsheet.FieldName))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return r
		case r > 127:
			return r
		}
		return -1
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = fmt.Sprintf("card-%04d", index+1)
	}

	if digits := row.Get(spreadsheet.FieldLastFourDigits); digits != "" {
		return fmt.Sprintf("%s , %s.pdf", name, digits)
	}
	return name + ".pdf"
}
