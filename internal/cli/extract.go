package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dreamkkun/retention/internal/config"
	"github.com/dreamkkun/retention/internal/policy"
	"github.com/dreamkkun/retention/internal/sheet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	extractOut     string
	extractVersion string
)

var extractCmd = &cobra.Command{
	Use:   "extract <workbook.xlsx>",
	Short: "Extract the canonical policy document from a workbook",
	Long: `Runs the extraction engine against a policy workbook on disk and
prints the canonical JSON document, without going through the server.
Useful for checking a new policy sheet before uploading it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write JSON to a file instead of stdout")
	extractCmd.Flags().StringVar(&extractVersion, "doc-version", "", "document version label")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load(viper.GetViper())

	src, err := sheet.OpenXLSXFile(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	version := extractVersion
	if version == "" {
		version = cfg.DefaultVersion
	}

	doc, err := policy.NewAssembler(log, cfg.ScanRowLimit).Assemble(src, version)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if extractOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(extractOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", extractOut, err)
	}
	log.Info("document written", "path", extractOut)
	return nil
}
