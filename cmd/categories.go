package cmd

import (
	"github.com/habedi/findstream/client"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories that can be searched",
		Run:   listCategories,
	}
}

func listCategories(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Name", "Display Name", "Game ID", "Default"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for _, c := range client.Categories() {
		isDefault := ""
		if c == client.DefaultCategory {
			isDefault = "yes"
		}
		table.Append([]string{c.String(), c.DisplayName(), c.GameID(), isDefault})
	}
	table.Render()
}
