package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/pkg/clierr"
	"github.com/habedi/findstream/pkg/lang"
	"github.com/habedi/findstream/pkg/pool"
	"github.com/habedi/findstream/pkg/validation"
	"github.com/habedi/findstream/search"
	"github.com/habedi/findstream/web"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type searchOptions struct {
	categories []string
	query      string
	language   string
	format     string
	workers    int
}

// categoryResult is one row of the JSON output.
type categoryResult struct {
	Category string `json:"category"`
	web.SimpleStream
}

func searchCmd(root *rootOptions) *cobra.Command {
	opts := searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search live streams by title words",
		Example: `  findstream search -q "rust go"
  findstream search -c Art -c Music -q "pixel lofi" -l en --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, root, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.categories, "category", "c", []string{client.DefaultCategory.String()},
		"Category to search in (repeatable); see `findstream categories`")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Words to look for in stream titles")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Only show streams in this language (ISO-639-1 code)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table or json")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 3, "Number of categories searched concurrently")

	return cmd
}

func (o searchOptions) validate() ([]client.Category, error) {
	categories := make([]client.Category, 0, len(o.categories))
	for _, name := range o.categories {
		c, err := validation.ValidateCategory(name)
		if err != nil {
			return nil, clierr.New(clierr.Validation, err.Error(), err)
		}
		categories = append(categories, c)
	}
	checks := []error{
		validation.ValidateQuery(o.query),
		validation.ValidateLanguageCode(o.language),
		validation.ValidateWorkerCount(o.workers),
	}
	for _, err := range checks {
		if err != nil {
			return nil, clierr.New(clierr.Validation, err.Error(), err)
		}
	}
	if o.format != "table" && o.format != "json" {
		return nil, clierr.New(clierr.Validation, fmt.Sprintf("invalid format %q (must be table or json)", o.format), nil)
	}
	return categories, nil
}

func runSearch(cmd *cobra.Command, root *rootOptions, opts searchOptions) error {
	categories, err := opts.validate()
	if err != nil {
		return err
	}

	settings, err := loadSettings(root)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	source, err := newStreamSource(ctx, settings, nil)
	if err != nil {
		return clierr.FromUpstream(err)
	}
	svc := search.NewService(source, nil)

	bar := newProgressBar(cmd.ErrOrStderr(), len(categories))
	results, errs := pool.Map(ctx, categories, opts.workers, func(ctx context.Context, c client.Category) (search.Result, error) {
		defer func() { _ = bar.Add(1) }()
		return svc.Search(ctx, c, opts.query, opts.language)
	})
	_ = bar.Finish()

	if err := pool.FirstError(errs); err != nil {
		log.Error().Err(err).Msg("Search failed")
		return clierr.FromUpstream(err)
	}

	now := time.Now()
	if opts.format == "json" {
		return writeResultsJSON(cmd.OutOrStdout(), results, now)
	}
	writeResultsTable(cmd, results, now)
	return nil
}

// newProgressBar shows a spinner on interactive terminals and stays silent otherwise.
func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Searching streams..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func writeResultsJSON(w io.Writer, results []search.Result, now time.Time) error {
	rows := make([]categoryResult, 0)
	for _, result := range results {
		for _, stream := range result.Streams {
			rows = append(rows, categoryResult{
				Category:     result.Category.String(),
				SimpleStream: web.NewSimpleStream(stream, now),
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return clierr.New(clierr.Internal, "failed to write results", err)
	}
	return nil
}

func writeResultsTable(cmd *cobra.Command, results []search.Result, now time.Time) {
	total := 0
	for _, result := range results {
		total += len(result.Streams)
	}
	if total == 0 {
		var words []string
		if len(results) > 0 {
			words = results[0].Words
		}
		cmd.Printf("Nobody streaming %s right now.\n", listWords(words))
		return
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Category", "User", "Title", "Language", "Uptime", "Viewers"})
	table.SetColMinWidth(2, 40)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for _, result := range results {
		for _, stream := range result.Streams {
			uptime := "-"
			if d, ok := stream.Since(now); ok {
				uptime = search.FormatUptime(d)
			}
			table.Append([]string{
				result.Category.DisplayName(),
				stream.UserName,
				strings.ReplaceAll(stream.Title, "\n", " "),
				lang.Translate(stream.Language),
				uptime,
				strconv.FormatUint(stream.ViewerCount, 10),
			})
		}
	}
	table.Render()
	log.Info().Msgf("Found %d matching streams.", total)
}

// listWords renders words as "a, b or c".
func listWords(words []string) string {
	switch len(words) {
	case 0:
		return "anything"
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " or " + words[len(words)-1]
	}
}
