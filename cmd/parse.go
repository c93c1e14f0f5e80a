package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"contacts-manager/internal/services"
	"contacts-manager/internal/vcard"

	"github.com/spf13/cobra"
)

var parseCSVOut string

// parseCmd prints the contacts found in a VCF file
var parseCmd = &cobra.Command{
	Use:   "parse [file.vcf]",
	Short: "Parse a VCF file and print its contacts as a table",
	Long: `Parse a VCF file and print a table of its contacts followed by summary
statistics. The store is not touched.

Defaults to the configured VCF file. With --csv the parsed records are also
written as CSV.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseCSVOut, "csv", "", "Also write the parsed records to this CSV file")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := cfg.VCFPath()
	if len(args) == 1 {
		path = args[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Parsing VCF file...")
	records, err := services.ReadVCF(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No contacts found in the VCF file.")
		return nil
	}

	fmt.Fprintf(out, "\nFound %d contacts in the VCF file.\n\n", len(records))
	printRecordTable(out, records)

	if parseCSVOut != "" {
		if err := writeRecordsFile(parseCSVOut, records); err != nil {
			return err
		}
		fmt.Fprintf(out, "Contacts saved to %s\n", parseCSVOut)
	}

	printRecordStats(out, records)
	return nil
}

var (
	tableHeaders = []string{"#", "Name", "Phone", "Email", "Organization"}
	tableWidths  = []int{3, 30, 20, 30, 20}
)

func printRecordTable(w io.Writer, records []vcard.Record) {
	header := formatRow(tableHeaders)
	rule := strings.Repeat("=", len([]rune(header)))

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, rule)
	for i, r := range records {
		name := r.Name
		if name == "" {
			name = r.FullName
		}
		fmt.Fprintln(w, formatRow([]string{
			fmt.Sprint(i + 1),
			cell(name, tableWidths[1]),
			cell(r.Phone, tableWidths[2]),
			cell(r.Email, tableWidths[3]),
			cell(r.Organization, tableWidths[4]),
		}))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total contacts: %d\n", len(records))
}

func printRecordStats(w io.Writer, records []vcard.Record) {
	var phones, emails, orgs int
	for _, r := range records {
		if r.Phone != "" {
			phones++
		}
		if r.Email != "" {
			emails++
		}
		if r.Organization != "" {
			orgs++
		}
	}
	fmt.Fprintln(w, "\nStatistics:")
	fmt.Fprintf(w, "- Total contacts: %d\n", len(records))
	fmt.Fprintf(w, "- Contacts with phone numbers: %d\n", phones)
	fmt.Fprintf(w, "- Contacts with email: %d\n", emails)
	fmt.Fprintf(w, "- Contacts with organization: %d\n", orgs)
}

func formatRow(values []string) string {
	cols := make([]string, len(values))
	for i, v := range values {
		cols[i] = pad(v, tableWidths[i])
	}
	return strings.Join(cols, " | ")
}

// cell truncates v to width-1 characters, or returns N/A when v is empty.
func cell(v string, width int) string {
	if v == "" {
		return "N/A"
	}
	if r := []rune(v); len(r) > width-1 {
		return string(r[:width-1])
	}
	return v
}

func pad(v string, width int) string {
	if n := len([]rune(v)); n < width {
		return v + strings.Repeat(" ", width-n)
	}
	return v
}

func writeRecordsFile(path string, records []vcard.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %v", path, err)
	}
	if err := services.WriteRecordsCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
