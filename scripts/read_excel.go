//go:build ignore
// +build ignore

// This script reads and displays the contents of a version report for verification.
// Run with: go run scripts/read_excel.go [report.xlsx]
package main

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	path := "sample_version_report.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer f.Close()

	fmt.Println("📊 Sheets:", f.GetSheetList())
	fmt.Println()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  %s\n", sheet)
		fmt.Println("═══════════════════════════════════════")
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			fmt.Printf("  %-20s %s\n", row[0], row[1])
		}
		fmt.Println()
	}

	fmt.Println("✅ Report read successfully")
}
