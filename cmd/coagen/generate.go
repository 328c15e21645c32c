package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/modfar/go-coa/pkg/coa"
)

var (
	genType     string
	genTemplate string
	genValues   string
	genOutput   string
	genPreview  string
	genDate     string
)

// generateCmd fills a COA template with lab values
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a COA document from a template and a values file",
	Long: `Fills the placeholders of a DOCX COA template with the lab values
from a YAML file and writes the generated document.

The values file lists up to four batches:

  date: 21/08/2026        # optional, defaults to today (Asia/Kolkata)
  batches:
    - label: L-204
      moisture: "8.1"
      viscosity1: "410"
      viscosity2: "395"
      ph: "7.2"
      # FAR templates additionally use:
      mesh: "98.5"
      bulk_density: "0.72"
      fann3: "33"
      fann30: "21"

Placeholders whose batch is not supplied are replaced with empty text.
Placeholders with unknown keys are left verbatim.`,
	RunE: runGenerate,
}

// valuesFile is the YAML shape of the --values input.
type valuesFile struct {
	Date    string      `yaml:"date"`
	Batches []coa.Batch `yaml:"batches"`
}

func init() {
	generateCmd.Flags().StringVarP(&genType, "type", "t", "", "certificate type: MOD or FAR (required)")
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "template DOCX path (overrides config)")
	generateCmd.Flags().StringVar(&genValues, "values", "", "YAML file with date and batch values (required)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output DOCX path (default COA_<type>_<batch1>.docx)")
	generateCmd.Flags().StringVar(&genPreview, "preview", "", "also write an HTML preview to this path")
	generateCmd.Flags().StringVar(&genDate, "date", "", "certificate date as DD/MM/YYYY (overrides values file)")
	_ = generateCmd.MarkFlagRequired("type")
	_ = generateCmd.MarkFlagRequired("values")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	typ := coa.COAType(strings.ToUpper(genType))
	if !typ.Valid() {
		return fmt.Errorf("unknown certificate type %q (want MOD or FAR)", genType)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	templatePath, err := cfg.templatePath(typ, genTemplate)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(genValues)
	if err != nil {
		return fmt.Errorf("failed to read values file: %w", err)
	}
	var vf valuesFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return fmt.Errorf("failed to parse values file: %w", err)
	}
	if len(vf.Batches) > coa.MaxBatches {
		return fmt.Errorf("too many batches: %d (max %d)", len(vf.Batches), coa.MaxBatches)
	}

	date := resolveDate(genDate, vf.Date)
	values := coa.BuildReplacements(date, typ, vf.Batches)

	logger.Debug("generating certificate",
		zap.String("type", string(typ)),
		zap.String("template", templatePath),
		zap.String("date", date),
		zap.Int("batches", len(vf.Batches)))

	tmpl, err := coa.PrepareFile(templatePath, coa.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}
	out, err := tmpl.Fill(values)
	if err != nil {
		return fmt.Errorf("failed to fill template: %w", err)
	}

	outputPath := genOutput
	if outputPath == "" {
		outputPath = defaultOutputName(typ, vf.Batches)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	fmt.Printf("Wrote %s\n", outputPath)

	if genPreview != "" {
		html, err := coa.PreviewHTML(out)
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		if err := os.WriteFile(genPreview, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", genPreview, err)
		}
		fmt.Printf("Wrote %s\n", genPreview)
	}
	return nil
}

// resolveDate picks the certificate date: flag, then values file, then
// today in the plant's timezone.
func resolveDate(flagDate, fileDate string) string {
	if flagDate != "" {
		return flagDate
	}
	if fileDate != "" {
		return fileDate
	}
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Format("02/01/2006")
}

// defaultOutputName derives the output filename from the first batch
// label, falling back to a placeholder when no batches are supplied.
func defaultOutputName(typ coa.COAType, batches []coa.Batch) string {
	label := "batch1"
	if len(batches) > 0 && batches[0].Label != "" {
		label = batches[0].Label
	}
	return fmt.Sprintf("COA_%s_%s.docx", typ, label)
}
