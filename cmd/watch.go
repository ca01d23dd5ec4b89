package cmd

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maxdcmn/rsgbench/internal/ui"
)

var watchFlags struct {
	interval time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch <run_path>",
	Short: "Live dashboard of a run file written by bench",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := ui.NewWatch(args[0], watchFlags.interval, cfg.Stats.GPUUsageThreshold)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchFlags.interval, "interval", time.Second, "poll interval (e.g. 1s, 250ms)")
}
