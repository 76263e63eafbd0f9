package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iafilius/ShotPlot/src/shot"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

func newInfoCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "info <shot.json>",
		Short: "Summarize a shot file",
		Long:  `Print the profile, start time, duration, time unit and the value range of each metric.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := shot.Load(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), s, all)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also list metrics the file does not carry")
	return cmd
}

func printInfo(w io.Writer, s *shot.Shot, all bool) {
	fmt.Fprintln(w, headerStyle.Render(s.Title()))
	unit := "seconds"
	if s.TimeScale != 1 {
		unit = "milliseconds"
	}
	rows := [][2]string{
		{"File", s.Path},
		{"Profile", s.ProfileName},
		{"Samples", fmt.Sprintf("%d", len(s.Samples))},
		{"Duration", fmt.Sprintf("%.2f s", s.Duration())},
		{"Clock", unit},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", r[0]+":")), r[1])
	}

	cats, byCat := shot.Categories()
	for _, c := range cats {
		var lines []string
		for _, f := range byCat[c] {
			ser := s.ExtractSeries(f.Path())
			lo, hi, ok := ser.Range()
			if !ok {
				if all {
					lines = append(lines, fmt.Sprintf("    %-22s %s", f.Name, missingStyle.Render("not recorded")))
				}
				continue
			}
			rng := fmt.Sprintf("%.2f … %.2f %s", lo, hi, f.Unit)
			lines = append(lines, fmt.Sprintf("    %-22s %s", f.Name, valueStyle.Render(strings.TrimSpace(rng))))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+categoryStyle.Render(c))
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
	}
}
