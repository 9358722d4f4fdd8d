package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/CheesyCanine05/smapi/core/mods"
)

// runList builds a pipeline from cfg, resolves the load order, and prints
// it as a table (or as plain lines when stdout isn't a terminal).
func runList(cfg CLIConfig) error {
	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	var ordered []*mods.ModMetadata
	if pterm.RawOutput {
		pterm.Info.Println("Resolving mod load order...")
		ordered, err = pipeline.Run(cfg.RootDir)
		if err != nil {
			return err
		}
		pterm.Success.Println("Resolution complete")
	} else {
		spinner, _ := pterm.DefaultSpinner.Start("Resolving mod load order...")
		ordered, err = pipeline.Run(cfg.RootDir)
		if err != nil {
			spinner.Fail("Resolution failed")
			return err
		}
		spinner.Success("Resolution complete")
	}

	printLoadOrder(ordered)
	return nil
}

func printLoadOrder(ordered []*mods.ModMetadata) {
	found, failed := 0, 0
	tableData := pterm.TableData{{"#", "Mod", "Status", "Detail"}}

	for i, meta := range ordered {
		status := "Found"
		detail := ""
		if meta.IsFound() {
			found++
			status = pterm.Green("Found")
		} else {
			failed++
			detail = meta.Error()
			status = pterm.Red("Failed")
			detail = pterm.Red(detail)
		}
		tableData = append(tableData, []string{
			fmt.Sprintf("%d", i+1),
			meta.DisplayName,
			status,
			detail,
		})
	}

	summary := fmt.Sprintf("Summary: %d found, %d failed (%d total)", found, failed, len(ordered))

	if pterm.RawOutput {
		for _, row := range tableData[1:] {
			fmt.Printf("%-4s %-30s %-8s %s\n", row[0], row[1], row[2], row[3])
		}
		fmt.Printf("\n%s\n", summary)
		return
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	pterm.Println(summary)
}
