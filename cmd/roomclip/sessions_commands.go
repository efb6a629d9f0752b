package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"roomclip/internal/store"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and manage recorded sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsShowCommand(ctx))
	sessionsCmd.AddCommand(newSessionsAddCommand(ctx))
	sessionsCmd.AddCommand(newSessionsRetryCommand(ctx))
	sessionsCmd.AddCommand(newSessionsResetCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var sessions []*store.Session
			if strings.TrimSpace(statusFilter) != "" {
				status, ok := store.ParseStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
				sessions, err = st.ListByStatus(cmd.Context(), status)
			} else {
				sessions, err = st.ListAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(sessions))
			for _, session := range sessions {
				clips, _ := session.Clips()
				note := session.ProgressNote
				if session.ErrorMessage != "" {
					note = session.ErrorMessage
				}
				rows = append(rows, []string{
					session.ID,
					session.Title,
					string(session.Status),
					strconv.Itoa(len(clips)),
					note,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Status", "Clips", "Note"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (uploading, processing, ready, error)")
	return cmd
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session with its clip manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			session, err := st.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", session.ID)
			fmt.Fprintf(out, "Title:   %s\n", session.Title)
			fmt.Fprintf(out, "Master:  %s\n", session.MasterVideoPath)
			fmt.Fprintf(out, "Status:  %s\n", session.Status)
			fmt.Fprintf(out, "t0:      %.3f\n", session.OBST0)
			if session.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:   %s\n", session.ErrorMessage)
			}
			if session.ProgressNote != "" {
				fmt.Fprintf(out, "Note:    %s\n", session.ProgressNote)
			}

			stream, err := st.EventsForSession(cmd.Context(), session.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Events:  %d\n", len(stream))

			clips, err := session.Clips()
			if err != nil {
				return fmt.Errorf("decode manifest: %w", err)
			}
			if len(clips) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(clips))
			for _, clip := range clips {
				rows = append(rows, []string{
					clip.RoomID,
					strconv.Itoa(clip.Idx),
					fmt.Sprintf("%.3f", clip.StartOffset),
					fmt.Sprintf("%.3f", clip.EndOffset),
					clip.ClipURL,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Room", "Idx", "Start", "End", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newSessionsAddCommand(ctx *commandContext) *cobra.Command {
	var title string
	var t0 float64

	cmd := &cobra.Command{
		Use:   "add <session-id> <master-video-path>",
		Short: "Register a session awaiting slicing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			session, err := st.UpsertSession(cmd.Context(), &store.Session{
				ID:              args[0],
				Title:           title,
				MasterVideoPath: args[1],
				OBST0:           t0,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s registered with status %s\n", session.ID, session.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Session title used for the lesson")
	cmd.Flags().Float64Var(&t0, "t0", 0, "Recording baseline timestamp (seconds)")
	return cmd
}

func newSessionsRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <session-id>",
		Short: "Move an errored session back to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Retry(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s queued for reprocessing\n", args[0])
			return nil
		},
	}
}

func newSessionsResetCommand(ctx *commandContext) *cobra.Command {
	var dropEvents bool

	cmd := &cobra.Command{
		Use:   "reset <session-id>",
		Short: "Force a session back to uploading and discard its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Reset(cmd.Context(), args[0]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dropEvents {
				removed, err := st.DeleteEvents(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Dropped %d event(s)\n", removed)
			}
			fmt.Fprintf(out, "Session %s reset\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropEvents, "drop-events", false, "Also delete the session's room events")
	return cmd
}
