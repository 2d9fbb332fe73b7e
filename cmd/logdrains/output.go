package main

import (
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/initify/logdrains/internal/vercel"
)

var (
	drainLabels   = []string{"ID", "Name", "Type", "URL", "Project", "Created"}
	projectLabels = []string{"ID", "Name", "Account"}
)

func renderTable(w io.Writer, labels []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(labels)
	table.AppendBulk(data)
	table.SetBorder(false)
	table.Render()
}

func drainRow(d vercel.LogDrain) []string {
	project := "-"
	if d.ProjectID != nil && *d.ProjectID != "" {
		project = *d.ProjectID
	}
	created := "-"
	if d.CreatedAt > 0 {
		created = time.UnixMilli(d.CreatedAt).UTC().Format(time.RFC3339)
	}
	return []string{d.ID, d.Name, string(d.Type), d.URL, project, created}
}
