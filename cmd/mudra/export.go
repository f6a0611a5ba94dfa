package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/store"
)

var exportFlags struct {
	db      string
	out     string
	angles  bool
	gesture string
	session string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded samples as CSV",
	Long: `Export writes recorded samples as CSV. By default each row holds the
capture time, the gesture and the 63 raw landmark coordinates.
With --angles each row holds the 15 finger joint angles and the gesture.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.db, "db", "", "SQLite file written by stream --record")
	f.StringVarP(&exportFlags.out, "out", "o", "", "output file (default stdout)")
	f.BoolVar(&exportFlags.angles, "angles", false, "export joint angles instead of raw landmarks")
	f.StringVar(&exportFlags.gesture, "gesture", "", "only export samples with this gesture")
	f.StringVar(&exportFlags.session, "session", "", "only export samples of this session")
	exportCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(exportFlags.db); err != nil {
		return fmt.Errorf("failed to access database: %w", err)
	}

	st, err := store.New(exportFlags.db)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	var samples []store.Sample
	switch {
	case exportFlags.gesture != "":
		samples, err = st.Samples().ListByGesture(ctx, exportFlags.gesture)
	case exportFlags.session != "":
		samples, err = st.Samples().ListBySession(ctx, exportFlags.session)
	default:
		samples, err = st.Samples().List(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load samples: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportFlags.out != "" {
		f, err := os.Create(exportFlags.out)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if exportFlags.angles {
		err = store.WriteAnglesCSV(w, samples)
	} else {
		err = store.WriteRawCSV(w, samples)
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if exportFlags.out != "" {
		printf(cmd, "Exported %d samples to %s\n", len(samples), exportFlags.out)
	}
	return nil
}
