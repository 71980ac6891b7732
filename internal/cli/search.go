package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/gora-search/internal/filter"
	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/popup"
	"github.com/spf13/cobra"
)

func newSearchCmd(o *rootOptions) *cobra.Command {
	var (
		area    string
		format  string
		sortBy  string
		price   string
		details bool
	)

	cmd := &cobra.Command{
		Use:   "search [keyword...]",
		Short: "Search golf courses by keyword and area",
		Long: `Search golf courses by keyword and area.
Exits 0 when courses were found, 2 when the search found nothing and 1 on error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := gora.SearchCriteria{
				Keyword:  strings.TrimSpace(strings.Join(args, " ")),
				AreaCode: strings.TrimSpace(area),
			}
			if !gora.IsValidArea(criteria.AreaCode) {
				return fmt.Errorf("invalid area code: %s (see 'gora-search areas')", area)
			}

			f, err := ParseFormat(strings.ToLower(format), FormatText, FormatJSON, FormatHTML)
			if err != nil {
				return err
			}
			order, err := ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			band, err := filter.ParsePriceBand(price)
			if err != nil {
				return err
			}

			a, err := o.app()
			if err != nil {
				return err
			}
			cred, err := a.credential()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			items, err := a.client.Search(ctx, cred, criteria)
			if err != nil {
				return userError(err)
			}

			result := &SearchOutput{
				SearchedAt: time.Now().UTC(),
				Keyword:    criteria.Keyword,
				AreaCode:   criteria.AreaCode,
				Items:      items,
			}
			if criteria.AreaCode != "" {
				result.AreaName = gora.AreaName(criteria.AreaCode)
			}

			if details || band != filter.PriceAny || order == SortByPrice {
				result.Details, result.DetailErrors = fetchDetails(ctx, a.client, cred, items)
			}
			if band != filter.PriceAny {
				priceFilter := &filter.AdvancedFilterCriteria{PriceBand: band}
				result.Items = filterByPrice(result.Items, result.Details, priceFilter)
				result.Filter = priceFilter.String()
			}
			sortItems(result.Items, order, result.Details)
			result.Count = len(result.Items)

			if err := WriteSearch(cmd.OutOrStdout(), result, f, o.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if result.Count == 0 {
				return errNoResults
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&area, "area", "", "Area (prefecture) code, 1-47; empty searches all areas")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or html")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by: name, area, evaluation or price (default: API order)")
	cmd.Flags().StringVar(&price, "price", "", "Weekday price band: low, medium or high (fetches details)")
	cmd.Flags().BoolVar(&details, "details", false, "Fetch and show each course's details")

	return cmd
}

// fetchDetails requests details one course at a time. A failure only affects
// that course and is reported with the popup's message.
func fetchDetails(ctx context.Context, client *gora.Client, cred string, items []gora.SearchResultItem) (map[string]*gora.CourseDetail, map[string]string) {
	details := make(map[string]*gora.CourseDetail, len(items))
	failures := make(map[string]string)

	for _, item := range items {
		id := item.CourseID()
		if id == "" {
			continue
		}
		d, err := client.Detail(ctx, cred, id)
		if err != nil {
			logger.Warn("Detail fetch failed", logger.Fields{
				"course_id": id,
				"kind":      gora.KindOf(err).String(),
			})
			failures[id] = popup.MessageFor(&gora.Error{Kind: gora.KindDetailFetch, Err: err})
			continue
		}
		details[id] = d
	}
	return details, failures
}

// filterByPrice keeps the courses whose weekday minimum falls in the band.
// Courses without a known price are dropped.
func filterByPrice(items []gora.SearchResultItem, details map[string]*gora.CourseDetail, criteria *filter.AdvancedFilterCriteria) []gora.SearchResultItem {
	kept := make([]gora.SearchResultItem, 0, len(items))
	for _, item := range items {
		d, ok := details[item.CourseID()]
		if !ok {
			continue
		}
		price, ok := d.WeekdayMinPrice.Float()
		if !ok {
			continue
		}
		if criteria.Matches(filter.Attributes{Price: price}) {
			kept = append(kept, item)
		}
	}
	return kept
}
