package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/dirshaye/LogInsight/internal/detector"
	"github.com/dirshaye/LogInsight/internal/model"
)

// Renderer writes processing outcomes to an output stream.
type Renderer interface {
	Render(outcome model.ProcessingOutcome) error
	RenderComparison(cmp model.Comparison) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleValue  = lipgloss.NewStyle().Bold(true)
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleScore = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// maxRenderedAnomalies caps how many anomalies the text renderer prints.
const maxRenderedAnomalies = 20

// TextRenderer prints a run summary and the top anomalies with
// severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(outcome model.ProcessingOutcome) error {
	fmt.Fprintln(r.w, styleHeader.Render(fmt.Sprintf("── %s ──", outcome.FileID)))
	r.line("entries", fmt.Sprintf("%d", outcome.TotalEntries))
	r.line("anomalies", fmt.Sprintf("%d", outcome.AnomalyCount))
	r.line("duration", outcome.Duration.String())
	r.line("throughput", fmt.Sprintf("%.0f entries/s", outcome.Metrics["throughput_entries_per_second"]))
	r.line("chunks", fmt.Sprintf("%.0f processed, %.0f failed",
		outcome.Metrics["chunks_processed"], outcome.Metrics["chunks_failed"]))
	r.line("workers", fmt.Sprintf("%.0f", outcome.Metrics["workers_used"]))

	summary := detector.Summarize(outcome.Anomalies)
	if summary.TotalResults > 0 {
		r.line("mean score", fmt.Sprintf("%.2f", summary.MeanScore))
		r.line("methods", strings.Join(summary.Methods, ", "))
	}

	shown := 0
	for _, a := range outcome.Anomalies {
		if !a.IsAnomaly {
			continue
		}
		if shown >= maxRenderedAnomalies {
			fmt.Fprintf(r.w, "  … %d more\n", outcome.AnomalyCount-shown)
			break
		}
		tag := styleLevelTag(a.Entry.Level)
		score := styleScore.Render(fmt.Sprintf("%5.2f", a.Score))
		ts := a.Entry.Timestamp.Format("15:04:05")
		fmt.Fprintf(r.w, "  %s %s %s %s\n", ts, tag, score, truncate(a.Entry.Message, 100))
		shown++
	}
	return nil
}

func (r *TextRenderer) RenderComparison(cmp model.Comparison) error {
	if err := r.Render(cmp.Sequential); err != nil {
		return err
	}
	if err := r.Render(cmp.Parallel); err != nil {
		return err
	}
	fmt.Fprintln(r.w, styleHeader.Render("── comparison ──"))
	r.line("speedup", fmt.Sprintf("%.2fx", cmp.Speedup))
	r.line("improvement", fmt.Sprintf("%.1f%%", cmp.PercentImprovement))
	r.line("time saved", fmt.Sprintf("%.3fs", cmp.TimeSavedSeconds))
	return nil
}

func (r *TextRenderer) line(label, value string) {
	fmt.Fprintf(r.w, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-12s", label)), styleValue.Render(value))
}

func styleLevelTag(level string) string {
	padded := fmt.Sprintf("%-8s", level)
	switch level {
	case "DEBUG", "TRACE":
		return styleInfo.Faint(true).Render(padded)
	case "WARN", "WARNING":
		return styleWarn.Render(padded)
	case "ERROR":
		return styleError.Render(padded)
	case "FATAL", "CRITICAL":
		return styleFatal.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}

// truncate caps s at max runes, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints outcomes as JSON for downstream tooling.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON to stdout.
func NewJSONRenderer() *JSONRenderer {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(outcome model.ProcessingOutcome) error {
	return r.enc.Encode(outcome)
}

func (r *JSONRenderer) RenderComparison(cmp model.Comparison) error {
	return r.enc.Encode(cmp)
}
