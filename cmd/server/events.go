package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-planner/internal/config"
	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/bobby-s-dev/weather-planner/internal/store"
)

func newEventsCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect or edit stored events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEventStore(cfg, logger, func(s *store.EventStore) error {
				events, err := s.Load()
				if err != nil {
					return err
				}
				printEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add DATE TITLE",
		Short: "Add an event on DATE (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEventStore(cfg, logger, func(s *store.EventStore) error {
				events, err := s.Load()
				if err != nil {
					return err
				}
				events, err = s.Add(events, models.CalendarEvent{Title: args[1], Date: args[0]})
				if err != nil {
					return err
				}
				printEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm DATE",
		Aliases: []string{"delete"},
		Short:   "Delete every event on DATE",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEventStore(cfg, logger, func(s *store.EventStore) error {
				events, err := s.Load()
				if err != nil {
					return err
				}
				events, err = s.Remove(events, args[0])
				if err != nil {
					return err
				}
				printEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	})

	return cmd
}

func withEventStore(cfg *config.Config, logger *zap.Logger, fn func(s *store.EventStore) error) error {
	kv, closer, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(store.NewEventStore(kv, cfg.Store.Key, logger))
}

func printEvents(w io.Writer, events []models.CalendarEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DATE", "TITLE")
	for _, e := range events {
		tbl.AddRow(e.Date, e.Title)
	}
	fmt.Fprintln(w, tbl)
}
