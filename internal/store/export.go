package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/landmark"
)

// RawHeader returns the CSV header of raw landmark exports:
// timestamp, gesture, then x, y and z of each landmark.
func RawHeader() []string {
	header := make([]string, 0, 2+3*landmark.NumLandmarks)
	header = append(header, "timestamp", "gesture")
	for i := 0; i < landmark.NumLandmarks; i++ {
		for _, axis := range "xyz" {
			header = append(header, fmt.Sprintf("landmark_%d_%c", i, axis))
		}
	}
	return header
}

// AnglesHeader returns the CSV header of joint angle exports.
func AnglesHeader() []string {
	header := make([]string, 0, landmark.NumAngles+1)
	for i := 0; i < landmark.NumAngles; i++ {
		header = append(header, fmt.Sprintf("angle_%d", i))
	}
	return append(header, "gesture")
}

// WriteRawCSV writes samples with their raw landmark coordinates.
func WriteRawCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RawHeader()); err != nil {
		return err
	}

	record := make([]string, 0, 2+3*landmark.NumLandmarks)
	for _, s := range samples {
		record = record[:0]
		record = append(record, s.CapturedAt.Format(time.RFC3339Nano), s.Gesture)
		for _, p := range s.Landmarks {
			record = append(record, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteAnglesCSV writes the joint angles of each sample followed by its label.
func WriteAnglesCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AnglesHeader()); err != nil {
		return err
	}

	record := make([]string, 0, landmark.NumAngles+1)
	for _, s := range samples {
		record = record[:0]
		for _, a := range s.Landmarks.JointAngles() {
			record = append(record, formatFloat(a))
		}
		record = append(record, s.Gesture)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
