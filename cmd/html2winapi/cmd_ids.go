package main

import (
	"fmt"
	"io"
	"strconv"

	"html2winapi/cmd/html2winapi/registry"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newIDsCmd(stdout, stderr io.Writer, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List the control ids stored in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, stderr)
			if err != nil {
				return err
			}
			reg, err := registry.Load(cfg.Registry)
			if err != nil {
				return err
			}
			if reg.Len() == 0 {
				fmt.Fprintf(stdout, "%s: no ids assigned yet\n", cfg.Registry)
				return nil
			}
			fmt.Fprintln(stdout, idsTable(stdout, reg.Entries()))
			fmt.Fprintf(stdout, "%d ids, next id %d\n", reg.Len(), reg.Next())
			return nil
		},
	}
}

func idsTable(w io.Writer, entries []registry.Entry) string {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	id := cell.Align(lipgloss.Right)

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(e.ID), e.Key}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "KEY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return id
			default:
				return cell
			}
		})
	return t.String()
}
