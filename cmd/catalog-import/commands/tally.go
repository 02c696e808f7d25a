package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/maltedev/seminovas-importer/internal/models"
)

func printTally(w io.Writer, tally models.ImportTally) {
	fmt.Fprintf(w, "Importação concluída. Total: %d, criadas: %d, atualizadas: %d, puladas: %d.\n",
		tally.Total, tally.Created, tally.Updated, tally.Skipped)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Total", "Criadas", "Atualizadas", "Puladas"})
	t.AppendRow(table.Row{tally.Total, tally.Created, tally.Updated, tally.Skipped})
	t.Render()
}
