package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seleniumqt/workbench/internal/config"
	"github.com/seleniumqt/workbench/internal/logging"
	"github.com/seleniumqt/workbench/internal/session"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the saved last-session snapshot",
	}
	cmd.AddCommand(sessionShowCmd())
	cmd.AddCommand(sessionHistoryCmd())
	return cmd
}

func sessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved snapshot's metadata and tab list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			meta, err := mgr.Metadata()
			if err != nil {
				fmt.Fprintln(out, "no saved session")
				return nil
			}
			fmt.Fprintln(out, header(meta.Name))
			fmt.Fprintln(out, field("updated", meta.Updated.Format("2006-01-02 15:04:05")))
			fmt.Fprintln(out, field("tabs", strconv.Itoa(meta.TabCount)))
			for kind, n := range meta.TabTypes {
				fmt.Fprintln(out, field(kind, strconv.Itoa(n)))
			}

			records, err := mgr.Records()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, header("Tabs"))
			for _, r := range records {
				line := fmt.Sprintf("  %d  %-10s %s", r.Index, r.Kind, r.Title)
				if r.URL != "" {
					line += "  " + styleLabel.Render(r.URL)
				}
				fmt.Fprintln(out, styleValue.Render(line))
			}
			return nil
		},
	}
}

func sessionHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the browsing history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager()
			if err != nil {
				return err
			}
			entries, err := mgr.History()
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %s\n",
					styleLabel.Render(e.Timestamp.Format("2006-01-02 15:04")),
					styleValue.Render(e.URL),
					styleLabel.Render(e.Title))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries (0 = all)")
	return cmd
}

func newManager() (*session.Manager, error) {
	cfg := config.LoadOrDefault()
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log = logging.NewDefault()
	}
	return session.NewManager(cfg.Data.Root, cfg.Session.HistoryLimit, log.Named("session"))
}
