// Package report formats prediction runs for the append-only prediction logs
// and for the console.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lottery-predictor/internal/predict"
)

// TimeLayout is the timestamp layout of the run header.
const TimeLayout = "2006/1/2 15:04:05"

// Writer appends prediction runs to log files under Dir.
type Writer struct {
	Dir      string
	Location *time.Location
	Now      func() time.Time
}

// NewWriter creates a writer for dir stamping runs in loc.
func NewWriter(dir string, loc *time.Location) *Writer {
	if loc == nil {
		loc = time.Local
	}
	return &Writer{Dir: dir, Location: loc, Now: time.Now}
}

// Format renders one run: a header, one line per combination and a blank line.
func (w *Writer) Format(predictions []predict.PredictionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prediction time: %s\n", w.Now().In(w.Location).Format(TimeLayout))
	for i, p := range predictions {
		fmt.Fprintf(&b, "Group %d: %s | %s\n", i+1, joinInts(p.MainBalls), joinInts(p.SupplementBalls))
	}
	b.WriteString("\n")
	return b.String()
}

// Append adds one run to fileName inside Dir, creating the directory if needed.
// The whole block is written with a single write.
func (w *Writer) Append(fileName string, predictions []predict.PredictionResult) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create prediction dir: %w", err)
	}

	path := filepath.Join(w.Dir, fileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open prediction log: %w", err)
	}
	if err := writeAndClose(f, w.Format(predictions)); err != nil {
		return "", fmt.Errorf("append prediction log: %w", err)
	}
	return path, nil
}

// writeAndClose writes content in one call and reports a failed close, which may
// mean the block never reached the file.
func writeAndClose(f io.WriteCloser, content string) error {
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteFrequencies prints a frequency table as zero padded "NN:count" pairs.
func WriteFrequencies(out io.Writer, title string, freqs []predict.NumberFrequency) {
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, f := range freqs {
		fmt.Fprintf(out, "%02d:%d ", f.Number, f.Frequency)
	}
	fmt.Fprint(out, "\n--------------------\n")
}

// WritePredictions prints predictions for the console.
func WritePredictions(out io.Writer, title string, predictions []predict.PredictionResult) {
	fmt.Fprintf(out, "\n%s predictions:\n", title)
	fmt.Fprintln(out, "====================")
	for i, p := range predictions {
		fmt.Fprintf(out, "Group %d:\n", i+1)
		fmt.Fprintf(out, "Main: %s\n", joinInts(p.MainBalls))
		fmt.Fprintf(out, "Supplement: %s\n", joinInts(p.SupplementBalls))
		fmt.Fprintln(out, "--------------------")
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
