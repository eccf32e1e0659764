package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BaSui01/genbridge/providers/firefly"
	"github.com/BaSui01/genbridge/providers/openai"
	"github.com/BaSui01/genbridge/providers/stock"
	"github.com/BaSui01/genbridge/providers/thirdparty"
	"github.com/BaSui01/genbridge/summary"
	"github.com/BaSui01/genbridge/types"
)

// =============================================================================
// 📋 apis
// =============================================================================

func newAPIsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apis",
		Short: "List registered APIs and their effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBASE URL\tTIMEOUT\tRETRIES")
			for _, name := range a.registry.List() {
				cfg, _ := a.registry.Config(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", name, cfg.BaseURL, cfg.Timeout, cfg.MaxRetries)
			}
			return tw.Flush()
		},
	}
}

// =============================================================================
// 📝 summarize
// =============================================================================

func (a *app) summarizer() *summary.Summarizer {
	opts := []summary.Option{
		summary.WithModel(a.cfg.Summary.Model),
		summary.WithMaxInputTokens(a.cfg.Summary.MaxInputTokens),
	}
	if a.cfg.Summary.UseTiktoken {
		opts = append(opts, summary.WithTokenCounter(summary.NewTiktokenCounter(a.cfg.Summary.Model, a.logger)))
	}
	if a.store != nil {
		opts = append(opts, summary.WithFeedbackStore(a.store))
	}
	return summary.NewSummarizer(openai.NewService(a.registry, a.logger), a.logger, opts...)
}

func newSummarizeCmd(a *app) *cobra.Command {
	var file, title, body string
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a help article with the Responses API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			article := summary.Article{Title: title, Body: body}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read article: %w", err)
				}
				if err := json.Unmarshal(data, &article); err != nil {
					return fmt.Errorf("parse article: %w", err)
				}
			}
			s, err := a.summarizer().Summarize(cmd.Context(), article)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON article file")
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&body, "body", "", "article body")
	cmd.AddCommand(newFeedbackCmd(a), newVotesCmd(a))
	return cmd
}

func newFeedbackCmd(a *app) *cobra.Command {
	var question, comment string
	cmd := &cobra.Command{
		Use:   "feedback <article-id> <up|down>",
		Short: "Record a thumbs up/down vote for a summary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fb := summary.Feedback{
				ArticleID:  args[0],
				QuestionID: question,
				SessionID:  a.session.SessionID(),
				Rating:     summary.Rating(strings.ToLower(args[1])),
				Comment:    comment,
			}
			if err := a.summarizer().RecordFeedback(cmd.Context(), fb); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s vote for %s\n", fb.Rating, fb.ArticleID)
			if a.store == nil {
				return nil
			}
			up, down, err := a.store.FeedbackCounts(cmd.Context(), fb.ArticleID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "totals: %d up, %d down\n", up, down)
			return nil
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "question id the vote refers to")
	cmd.Flags().StringVar(&comment, "comment", "", "free-form comment")
	return cmd
}

func newVotesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "votes <article-id>",
		Short: "List stored feedback for a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errNoDatabase
			}
			rows, err := a.store.ListFeedback(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			up, down, err := a.store.FeedbackCounts(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s: %d up, %d down\n", args[0], up, down)
			fmt.Fprintln(tw, "TIME\tRATING\tQUESTION\tCOMMENT")
			for _, fb := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", fb.CreatedAt.Format(time.RFC3339), fb.Rating, fb.QuestionID, fb.Comment)
			}
			return tw.Flush()
		},
	}
}

// =============================================================================
// 🔍 stock
// =============================================================================

func newStockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Adobe Stock commands"}

	var limit int
	var product string
	search := &cobra.Command{
		Use:   "search <words>",
		Short: "Search stock files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []stock.Option
			if a.cache != nil {
				opts = append(opts, stock.WithCache(a.cache, a.cfg.Redis.StockTTL))
			}
			svc := stock.NewService(a.registry, a.logger, opts...)

			if limit <= 0 {
				limit = stock.DefaultQuickLimit
			}
			params := stock.SearchParameters{
				Words:         strings.Join(args, " "),
				Limit:         limit,
				ResultColumns: stock.DefaultResultColumns,
			}
			resp, err := svc.Search(cmd.Context(), a.apiKey, params, product)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%d results\n", resp.NbResults)
			fmt.Fprintln(tw, "ID\tTITLE\tSIZE\tTHUMBNAIL")
			for _, f := range resp.Files {
				fmt.Fprintf(tw, "%d\t%s\t%dx%d\t%s\n", f.ID, f.Title, f.Width, f.Height, f.ThumbnailURL)
			}
			return tw.Flush()
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	search.Flags().StringVar(&product, "product", "", "X-Product header value")
	cmd.AddCommand(search)
	return cmd
}

// =============================================================================
// 🎨 generate (3P gateway)
// =============================================================================

type generateFlags struct {
	model  string
	n      int
	width  int
	height int
	wait   bool
}

func (f *generateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model id (gateway default when empty)")
	cmd.Flags().IntVar(&f.n, "n", 1, "number of outputs")
	cmd.Flags().IntVar(&f.width, "width", 0, "output width")
	cmd.Flags().IntVar(&f.height, "height", 0, "output height")
	cmd.Flags().BoolVarP(&f.wait, "wait", "w", false, "poll until the job finishes")
}

func (f *generateFlags) options() *thirdparty.Options {
	o := &thirdparty.Options{ModelID: f.model, N: f.n}
	if f.width > 0 && f.height > 0 {
		o.Size = &thirdparty.Size{Width: f.width, Height: f.height}
	}
	return o
}

func (a *app) thirdparty() *thirdparty.Service {
	opts := []thirdparty.Option{thirdparty.WithPoller(a.poller("thirdparty"))}
	if l := a.ledger(); l != nil {
		opts = append(opts, thirdparty.WithLedger(l))
	}
	return thirdparty.NewService(a.registry, a.logger, opts...)
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "generate", Short: "Generate media through the third-party model gateway"}

	var imgFlags, vidFlags generateFlags
	image := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, apiKey, err := a.credentials(cmd.Context())
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")
			svc := a.thirdparty()
			if !imgFlags.wait {
				resp, err := svc.GenerateImage(cmd.Context(), prompt, token, apiKey, imgFlags.options())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			res, err := svc.GenerateImageAndWait(cmd.Context(), prompt, token, apiKey, imgFlags.options())
			if err != nil {
				return err
			}
			return printURLs(cmd, res.URLs())
		},
	}
	imgFlags.bind(image)

	video := &cobra.Command{
		Use:   "video <prompt>",
		Short: "Generate a video",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, apiKey, err := a.credentials(cmd.Context())
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")
			svc := a.thirdparty()
			if !vidFlags.wait {
				resp, err := svc.GenerateVideo(cmd.Context(), prompt, token, apiKey, vidFlags.options())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			res, err := svc.GenerateVideoAndWait(cmd.Context(), prompt, token, apiKey, vidFlags.options())
			if err != nil {
				return err
			}
			return printURLs(cmd, res.URLs())
		},
	}
	vidFlags.bind(video)

	cmd.AddCommand(image, video)
	return cmd
}

func printURLs(cmd *cobra.Command, urls []string) error {
	if len(urls) == 0 {
		return types.NewError(types.ErrEmptyResponse, "job finished without outputs")
	}
	for _, u := range urls {
		fmt.Fprintln(cmd.OutOrStdout(), u)
	}
	return nil
}

// =============================================================================
// 🔥 firefly
// =============================================================================

func newFireflyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "firefly", Short: "Firefly image and video commands"}

	var version string
	var n, width, height int
	var seed int64
	generate := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate images with Firefly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, apiKey, err := a.credentials(cmd.Context())
			if err != nil {
				return err
			}
			opts := &firefly.GenerateOptions{}
			if width > 0 && height > 0 {
				opts.Size = &firefly.Size{Width: width, Height: height}
			}
			if seed == 0 {
				seed = int64(uuid.New().ID())
			}
			for i := 0; i < n; i++ {
				opts.Seeds = append(opts.Seeds, (seed+int64(i))%firefly.MaxSeed)
			}

			svc := firefly.NewService(a.registry, a.logger, fireflyOptions(a)...)
			resp, err := svc.Generate(cmd.Context(), firefly.Version(version), strings.Join(args, " "), token, apiKey, opts)
			if err != nil {
				return err
			}
			urls := make([]string, 0, len(resp.Outputs))
			for _, o := range resp.Outputs {
				urls = append(urls, o.Image.PresignedURL)
			}
			return printURLs(cmd, urls)
		},
	}
	generate.Flags().StringVar(&version, "version", string(firefly.V3), "API version (v2, v3, v4)")
	generate.Flags().IntVar(&n, "n", 1, "number of images")
	generate.Flags().IntVar(&width, "width", 0, "output width")
	generate.Flags().IntVar(&height, "height", 0, "output height")
	generate.Flags().Int64Var(&seed, "seed", 0, "first seed, later images use seed+i (random when 0)")

	video := &cobra.Command{
		Use:   "video <prompt>",
		Short: "Generate a video with Firefly and wait for it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, apiKey, err := a.credentials(cmd.Context())
			if err != nil {
				return err
			}
			svc := firefly.NewService(a.registry, a.logger, fireflyOptions(a)...)
			res, err := svc.GenerateVideoAndWait(cmd.Context(), strings.Join(args, " "), token, apiKey, nil)
			if err != nil {
				return err
			}
			return printURLs(cmd, res.URLs())
		},
	}

	cmd.AddCommand(generate, video)
	return cmd
}

func fireflyOptions(a *app) []firefly.Option {
	opts := []firefly.Option{firefly.WithPoller(a.poller("firefly"))}
	if l := a.ledger(); l != nil {
		opts = append(opts, firefly.WithLedger(l))
	}
	return opts
}

// =============================================================================
// ℹ️ version
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "genbridge %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
		},
	}
}
