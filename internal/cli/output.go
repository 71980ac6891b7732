package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/render"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
)

// ParseFormat validates a --format value against the allowed formats.
func ParseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	for _, f := range allowed {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format: %s (must be one of %v)", s, allowed)
}

// SearchOutput contains the data written by the search command
type SearchOutput struct {
	SearchedAt   time.Time                     `json:"searched_at"`
	Keyword      string                        `json:"keyword,omitempty"`
	AreaCode     string                        `json:"area_code,omitempty"`
	AreaName     string                        `json:"area_name,omitempty"`
	Count        int                           `json:"count"`
	Items        []gora.SearchResultItem       `json:"items"`
	Details      map[string]*gora.CourseDetail `json:"details,omitempty"`
	DetailErrors map[string]string             `json:"detail_errors,omitempty"`
	Filter       string                        `json:"filter,omitempty"`
}

// WriteSearch writes the result in the specified format
func WriteSearch(w io.Writer, result *SearchOutput, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeSearchText(w, result, verbose)
	case FormatHTML:
		return writeSearchHTML(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteDetail writes one course's details
func WriteDetail(w io.Writer, id string, detail *gora.CourseDetail, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, detail)
	case FormatText:
		fmt.Fprintf(w, "Course %s\n", id)
		writeDetailRows(w, detail, "  ")
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeSearchText outputs results as human-readable text
func writeSearchText(w io.Writer, result *SearchOutput, verbose bool) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "No courses found.")
		return nil
	}

	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n\n", result.Filter)
	}

	for _, item := range result.Items {
		id := item.CourseID()
		fmt.Fprintf(w, "%s [%s]\n", render.DisplayName(item), id)
		fmt.Fprintf(w, "  場所: %s\n", render.OrUnknown(item.Location()))
		fmt.Fprintf(w, "  評価: %s\n", render.OrUnknown(item.Evaluation))
		if verbose {
			fmt.Fprintf(w, "  住所: %s\n", render.OrUnknown(item.Address))
			fmt.Fprintf(w, "  電話番号: %s\n", render.OrUnknown(item.Phone))
			if item.ReserveURL.IsSet() {
				fmt.Fprintf(w, "  予約: %s\n", item.ReserveURL.String())
			}
		}

		if detail, ok := result.Details[id]; ok {
			writeDetailRows(w, detail, "    ")
		} else if msg, ok := result.DetailErrors[id]; ok {
			fmt.Fprintf(w, "    %s\n", msg)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d courses\n", result.Count)
	return nil
}

// writeDetailRows prints the rows the popup appends when details are merged.
func writeDetailRows(w io.Writer, d *gora.CourseDetail, indent string) {
	for _, row := range render.DetailRows(d) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, row.Label, row.Value)
	}
}

// writeSearchHTML renders the popup result list, details merged in.
func writeSearchHTML(w io.Writer, result *SearchOutput) error {
	page := render.NewPage()
	page.SetKeyword(result.Keyword)
	page.SetArea(result.AreaCode)
	page.RenderResults(result.Items)

	for id, detail := range result.Details {
		page.MergeDetail(id, detail)
		page.SetTrigger(id, render.TriggerDone)
	}
	for id := range result.DetailErrors {
		page.SetTrigger(id, render.TriggerFailed)
	}

	out, err := page.Fragment("#resultsList")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
