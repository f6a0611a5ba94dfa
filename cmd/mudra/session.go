package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

var sessionDB string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print a new session id, or list recorded sessions",
	Long: `Session prints a freshly generated client session id. With --db it
lists the sessions recorded in that database with their sample counts.`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().StringVar(&sessionDB, "db", "", "list sessions recorded in this SQLite file")
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	if sessionDB == "" {
		printf(cmd, "%s\n", session.New())
		return nil
	}

	st, err := store.New(sessionDB)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	sessions, err := st.Sessions().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODE\tSERVER\tSTARTED\tSAMPLES")
	for _, s := range sessions {
		samples, err := st.Samples().ListBySession(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("failed to count samples: %w", err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			s.ID, s.Mode, s.ServerURL, s.StartedAt.Format(time.RFC3339), len(samples))
	}
	return tw.Flush()
}
