package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"roomclip/internal/events"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Manage room enter/exit events",
	}

	eventsCmd.AddCommand(newEventsAddCommand(ctx))
	eventsCmd.AddCommand(newEventsImportCommand(ctx))
	eventsCmd.AddCommand(newEventsListCommand(ctx))

	return eventsCmd
}

func newEventsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <session-id> <room-id> <enter|exit> <timestamp>",
		Short: "Append a single room event",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventType, ok := events.ParseType(args[2])
			if !ok {
				return fmt.Errorf("event type must be \"enter\" or \"exit\", got %q", args[2])
			}
			timestamp, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("parse timestamp %q: %w", args[3], err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			id, err := st.AddRoomEvent(cmd.Context(), args[0], args[1], eventType, timestamp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Event %d recorded\n", id)
			return nil
		},
	}
}

type importedEvent struct {
	RoomID    string  `json:"roomId"`
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

func newEventsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <session-id> <events.json>",
		Short: "Import a JSON array of room events",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read events file: %w", err)
			}
			var imported []importedEvent
			if err := json.Unmarshal(data, &imported); err != nil {
				return fmt.Errorf("parse events file: %w", err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.GetSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			for i, ev := range imported {
				eventType, ok := events.ParseType(ev.Type)
				if !ok {
					return fmt.Errorf("event %d: unknown type %q", i, ev.Type)
				}
				if _, err := st.AddRoomEvent(cmd.Context(), args[0], ev.RoomID, eventType, ev.Timestamp); err != nil {
					return fmt.Errorf("event %d: %w", i, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d event(s)\n", len(imported))
			return nil
		},
	}
}

func newEventsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <session-id>",
		Short: "List a session's room events in processing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			stream, err := st.EventsForSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stream))
			for _, ev := range stream {
				rows = append(rows, []string{
					ev.RoomID,
					string(ev.Type),
					fmt.Sprintf("%.3f", ev.Timestamp),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Room", "Type", "Timestamp"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
