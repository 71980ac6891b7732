package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gora-search/internal/augment"
	"github.com/pfrederiksen/gora-search/internal/filter"
	"github.com/spf13/cobra"
)

func newAugmentCmd(o *rootOptions) *cobra.Command {
	var (
		file         string
		pageURL      string
		out          string
		applyFilters bool
		criteriaText string
		sortBy       string
	)

	cmd := &cobra.Command{
		Use:   "augment [URL]",
		Short: "Add the course panel or filter and sort controls to a GORA page",
		Long: `Add the course panel (detail pages) or the filter and sort controls
(search pages) to a GORA page and print the resulting HTML.
The page is downloaded from URL, or read from --file with --url naming where
it came from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				pageURL = args[0]
			}
			if pageURL == "" {
				return fmt.Errorf("a page URL is required (argument or --url)")
			}
			u, err := url.Parse(pageURL)
			if err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}

			order, err := augment.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			values, err := url.ParseQuery(criteriaText)
			if err != nil {
				return fmt.Errorf("invalid --criteria: %w", err)
			}
			criteria, err := filter.ParseCriteria(values)
			if err != nil {
				return fmt.Errorf("invalid --criteria: %w", err)
			}

			var doc *goquery.Document
			if file != "" {
				doc, err = readPage(file)
			} else {
				ctx, cancel := signalContext(cmd.Context())
				defer cancel()
				doc, err = augment.NewFetcher().Fetch(ctx, pageURL)
			}
			if err != nil {
				return err
			}

			res, err := augment.Augment(doc, u)
			if err != nil {
				return err
			}
			if applyFilters {
				augment.ApplyFilters(doc, criteria)
			}
			if sortBy != "" {
				augment.SortResults(doc, order)
			}

			if o.verbose {
				w := cmd.ErrOrStderr()
				fmt.Fprintf(w, "Modes: %v\n", res.Modes)
				for _, fs := range augment.FieldSelectors {
					if v, ok := res.Info[fs.Field]; ok {
						fmt.Fprintf(w, "  %s: %s\n", fs.Label, v)
					}
				}
				if applyFilters {
					fmt.Fprintf(w, "Filter: %s\n", criteria)
				}
			}

			html, err := doc.Html()
			if err != nil {
				return fmt.Errorf("rendering page: %w", err)
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
				return err
			}
			if err := os.WriteFile(out, []byte(html), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the page from this file instead of downloading it")
	cmd.Flags().StringVar(&pageURL, "url", "", "URL the page was loaded from (selects the enhancements)")
	cmd.Flags().StringVar(&out, "out", "", "Write the page here instead of stdout")
	cmd.Flags().BoolVar(&applyFilters, "apply-filters", false, "Run the filter action after injecting the controls")
	cmd.Flags().StringVar(&criteriaText, "criteria", "", "Filter form values as a query string, e.g. crMin=70&priceFilter=low")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Run the sort action with this order")

	return cmd
}

func readPage(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}
