package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"contacts-manager/internal/models"
	"contacts-manager/internal/services"

	"github.com/spf13/cobra"
)

var (
	exportOut       string
	exportCategory  string
	exportSearch    string
	exportSelected  []int
	exportImportant bool
	exportArchived  bool
)

// exportCmd writes the stored contacts as CSV
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored contacts to CSV",
	Long: `Write the stored contacts that match the filter flags as CSV.

Archived contacts are left out unless --archived is given. The output file
defaults to contacts_export_<timestamp>.csv; use -o - for stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file, - for stdout")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "Only contacts in this category (all for any)")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Case-insensitive match on name, full name or organization")
	exportCmd.Flags().IntSliceVar(&exportSelected, "selected", nil, "Only these contact ids")
	exportCmd.Flags().BoolVar(&exportImportant, "important", false, "Only important contacts")
	exportCmd.Flags().BoolVar(&exportArchived, "archived", false, "Include archived contacts")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	filter := models.ContactFilter{
		Category:        exportCategory,
		ImportantOnly:   exportImportant,
		IncludeArchived: exportArchived,
		Search:          exportSearch,
		IDs:             exportSelected,
	}

	path := exportOut
	if path == "" {
		path = services.ExportFileName(time.Now())
	}

	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("error creating %s: %v", path, err)
		}
		defer f.Close()
		w = f
	}

	n, err := a.service.ExportCSV(w, filter)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", n, path)
	}
	return nil
}
