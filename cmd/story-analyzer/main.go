package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"story-analyzer/internal/config"
	"story-analyzer/internal/helpers"
	"story-analyzer/internal/logging"
	"story-analyzer/internal/models"
	"story-analyzer/internal/repositories"
	"story-analyzer/internal/router"
	"story-analyzer/internal/services"
	"story-analyzer/internal/session"
	"story-analyzer/internal/settings"
	"story-analyzer/internal/theme"
	"story-analyzer/internal/views"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	noColor    bool
)

// app bundles everything a command needs
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	theme   *theme.Theme
	store   settings.Store
	session *session.Session
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "story-analyzer",
		Short: "Story Analyzer - INVEST review, technical review and team estimates for user stories",
		Long: `Story Analyzer submits a user story to the analysis service and renders the
returned INVEST breakdown, improved story, suggestions, technical review and
team estimates in the terminal or through a local UI server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureOutput(noColor)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	var analyzeCmd = &cobra.Command{
		Use:   "analyze <story-file>",
		Short: "Submit a story for agile review",
		Long:  "Submit a story file (YAML or JSON) to the analysis service and render the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringP("view", "v", "/story", "Route to render after the analysis")
	analyzeCmd.Flags().BoolP("save", "s", false, "Save the view-model to the output directory")
	analyzeCmd.Flags().String("policy", "", "Suggestion policy override (dash-list, additional)")
	rootCmd.AddCommand(analyzeCmd)

	var reviewCmd = &cobra.Command{
		Use:   "review <story-file>",
		Short: "Run the full GraphQL review of a story",
		Long:  "Run the AnalyzeStory mutation and render the agile, technical and estimate views",
		Args:  cobra.ExactArgs(1),
		RunE:  runReview,
	}
	rootCmd.AddCommand(reviewCmd)

	var estimateCmd = &cobra.Command{
		Use:   "estimate <story-file>",
		Short: "Collect team person-day estimates for a story",
		Args:  cobra.ExactArgs(1),
		RunE:  runEstimate,
	}
	rootCmd.AddCommand(estimateCmd)

	var feedbackCmd = &cobra.Command{
		Use:   "feedback <analysis-result.json>",
		Short: "Approve or reject a raw analysis result",
		Args:  cobra.ExactArgs(1),
		RunE:  runFeedback,
	}
	feedbackCmd.Flags().Bool("approve", false, "Approve the analysis (default rejects)")
	rootCmd.AddCommand(feedbackCmd)

	var viewCmd = &cobra.Command{
		Use:   "view <path|name>",
		Short: "Render a view from a saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().StringP("from", "f", "", "Saved view-model file (from analyze --save)")
	rootCmd.AddCommand(viewCmd)

	var routesCmd = &cobra.Command{
		Use:   "routes",
		Short: "List the view routes",
		Args:  cobra.NoArgs,
		Run:   runRoutes,
	}
	rootCmd.AddCommand(routesCmd)

	var themeCmd = &cobra.Command{
		Use:   "theme",
		Short: "Show the current theme",
		Args:  cobra.NoArgs,
		RunE:  runThemeShow,
	}
	themeCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE:  runThemeToggle,
	})
	rootCmd.AddCommand(themeCmd)

	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

// configureOutput turns off ANSI colors everywhere for --no-color
func configureOutput(disable bool) {
	if disable {
		color.NoColor = true
	}
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := settings.Open(&cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	th, err := theme.New(ctx, store, theme.ConsoleApplier)
	if err != nil {
		return nil, fmt.Errorf("failed to load theme: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		theme:   th,
		store:   store,
		session: session.New(),
	}, nil
}

func (a *app) close() {
	if closer, ok := a.store.(interface{ Close() error }); ok {
		closer.Close()
	}
	a.logger.Sync()
}

// resolveRoute accepts either a path ("/tech") or a route name ("tech")
func resolveRoute(target string) (router.Route, error) {
	route, err := router.Resolve(target)
	if err == nil {
		return route, nil
	}
	if byName, nameErr := router.ByName(target); nameErr == nil {
		return byName, nil
	}
	return router.Route{}, fmt.Errorf("%w: %s (see 'story-analyzer routes')", err, target)
}

func (a *app) render(path string) error {
	route, err := resolveRoute(path)
	if err != nil {
		return err
	}
	helpers.PrintSeparator()
	return route.View.Render(os.Stdout, views.Context{
		Session: a.session,
		Dark:    a.theme.IsDark(),
		Plain:   color.NoColor || !helpers.IsTerminal(),
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	viewPath, _ := cmd.Flags().GetString("view")
	save, _ := cmd.Flags().GetBool("save")
	policyFlag, _ := cmd.Flags().GetString("policy")

	if policyFlag != "" {
		a.cfg.Analysis.SuggestionPolicy = policyFlag
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	story, err := services.LoadStory(args[0])
	if err != nil {
		return err
	}

	helpers.PrintTitle("Submitting Story for Agile Review")
	helpers.PrintInfo("Story file: %s", args[0])
	helpers.PrintInfo("Service: %s", a.cfg.API.BaseURL)

	storyService := services.NewStoryService(
		repositories.NewAnalysisRepository(&a.cfg.API),
		a.cfg.Policy(),
		a.logger,
	)

	view, err := storyService.SubmitStoryForAgileReview(ctx, story)
	if err != nil {
		return err
	}
	a.session.SetAnalysis(view)

	helpers.PrintSuccess("Analysis received")

	if save {
		path, err := services.SaveAnalysisView(view, a.cfg.Processing.OutputDir, a.cfg.Processing.OutputPrefix)
		if err != nil {
			return err
		}
		helpers.PrintSuccess("Saved analysis to: %s", path)
	}

	return a.render(viewPath)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	story, err := services.LoadStory(args[0])
	if err != nil {
		return err
	}

	helpers.PrintTitle("Reviewing Story")
	helpers.PrintInfo("GraphQL endpoint: %s%s", a.cfg.API.BaseURL, a.cfg.API.GraphQLPath)

	reviewService := services.NewReviewService(repositories.NewGraphQLRepository(&a.cfg.API), a.logger)
	review, err := reviewService.ReviewStory(ctx, services.StoryInputFrom(story))
	if err != nil {
		return err
	}
	a.session.SetReview(review)

	helpers.PrintSuccess("Review %s received", review.ID)

	for _, path := range []string{"/agile", "/tech", "/estimate"} {
		if err := a.render(path); err != nil {
			return err
		}
	}
	return nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	story, err := services.LoadStory(args[0])
	if err != nil {
		return err
	}

	helpers.PrintTitle("Collecting Team Estimates")

	estimateService := services.NewEstimateService(repositories.NewAnalysisRepository(&a.cfg.API), a.logger)
	estimates, err := estimateService.EstimateDays(ctx, story)
	if err != nil {
		return err
	}
	a.session.SetEstimates(estimates)

	return a.render("/estimate")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	approve, _ := cmd.Flags().GetBool("approve")

	var result models.AnalysisResult
	if err := helpers.LoadJSON(args[0], &result); err != nil {
		return fmt.Errorf("failed to load analysis result: %w", err)
	}

	estimateService := services.NewEstimateService(repositories.NewAnalysisRepository(&a.cfg.API), a.logger)
	response, err := estimateService.SubmitFeedback(ctx, &result, approve)
	if err != nil {
		return err
	}

	verdict := "rejected"
	if approve {
		verdict = "approved"
	}
	helpers.PrintSuccess("Analysis %s", verdict)
	for key, value := range response {
		helpers.PrintInfo("%s: %v", key, value)
	}
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	from, _ := cmd.Flags().GetString("from")
	if from != "" {
		view, err := services.LoadAnalysisView(from)
		if err != nil {
			return err
		}
		a.session.SetAnalysis(view)
	}

	return a.render(args[0])
}

func runRoutes(cmd *cobra.Command, args []string) {
	helpers.PrintTitle("Routes")
	for _, r := range router.Routes {
		helpers.PrintInfo("%-10s %-10s %s", r.Path, r.Name, r.Description)
	}
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	helpers.PrintInfo("Theme: %s", a.theme.Name())
	return nil
}

func runThemeToggle(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.theme.Toggle(cmd.Context()); err != nil {
		return err
	}
	name := a.theme.Name()
	helpers.PrintSuccess("Theme switched to %s", strings.ToUpper(name[:1])+name[1:])
	return nil
}
