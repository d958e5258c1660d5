// Package main provides the CLI entrypoint for climblog.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wchung1209/climbing-log/internal/config"
	"github.com/wchung1209/climbing-log/internal/dashboard"
	"github.com/wchung1209/climbing-log/internal/dates"
	"github.com/wchung1209/climbing-log/internal/grade"
	"github.com/wchung1209/climbing-log/internal/logging"
	"github.com/wchung1209/climbing-log/internal/model"
	"github.com/wchung1209/climbing-log/internal/server"
	"github.com/wchung1209/climbing-log/internal/stats"
	"github.com/wchung1209/climbing-log/internal/store"
)

const (
	defaultPlotHeight = 8
	defaultLogLevel   = "info"
	defaultLogFormat  = logging.FormatConsole
	defaultAddr       = "127.0.0.1:8080"
	weakestStyleCount = 3
)

var (
	dbPath    string
	logLevel  string
	logFormat string

	dashTag        string
	dashGrades     []string
	dashPageSize   int
	dashPlotHeight int

	logDate     string
	logGrade    string
	logCustom   bool
	logAttempts int
	logSent     bool
	logTags     []string
	logNotes    string

	listTag      string
	listGrades   []string
	listPage     int
	listPageSize int

	summaryTag        string
	summaryGrades     []string
	summaryPlotHeight int

	serveAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "climblog",
		Short:         "Bouldering log with send-rate analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/climblog/climblog.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaultLogFormat, "log format (console, json)")

	rootCmd.Flags().StringVar(&dashTag, "tag", "", "style filter")
	rootCmd.Flags().StringSliceVar(&dashGrades, "grade", nil, "grade filter (repeatable)")
	rootCmd.Flags().IntVar(&dashPageSize, "page-size", stats.DefaultPageSize, "climbs per page")
	rootCmd.Flags().IntVar(&dashPlotHeight, "plot-height", defaultPlotHeight, "trend plot height in rows")

	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStylesCmd())

	return rootCmd
}

// setup loads the config file, applies it to the shared flags and opens the
// logger and store. The returned cleanup must always be called.
func setup(cmd *cobra.Command) (config.FileConfig, *zap.Logger, *store.Store, func(), error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)

	logger, err := logging.New(logLevel, logFormat)
	if err != nil {
		return config.FileConfig{}, nil, nil, nil, err
	}

	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		syncLogger(logger)
		return config.FileConfig{}, nil, nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("opened database", zap.String("path", path))

	cleanup := func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", zap.Error(cerr))
		}
		syncLogger(logger)
	}
	return fileCfg, logger, st, cleanup, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, logger, st, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	applyStringConfig(cmd, "tag", &dashTag, fileCfg.Dashboard.Tag)
	applyStringSliceConfig(cmd, "grade", &dashGrades, fileCfg.Dashboard.Grades)
	applyIntConfig(cmd, "page-size", &dashPageSize, fileCfg.Dashboard.PageSize)
	applyIntConfig(cmd, "plot-height", &dashPlotHeight, fileCfg.Dashboard.PlotHeight)

	sel, err := buildSelection(dashTag, dashGrades)
	if err != nil {
		return err
	}
	if err := validatePositive("--page-size", dashPageSize); err != nil {
		return err
	}
	if err := validatePositive("--plot-height", dashPlotHeight); err != nil {
		return err
	}

	if err := warnRejected(cmd.Context(), st, logger); err != nil {
		return err
	}

	name := ""
	if fileCfg.Dashboard.Name != nil {
		name = *fileCfg.Dashboard.Name
	}
	// The dashboard logs nowhere: stderr output would corrupt the alt screen.
	m := dashboard.New(st, dashboard.Options{
		Selection:  sel,
		PageSize:   dashPageSize,
		PlotHeight: dashPlotHeight,
		Name:       name,
		Logger:     zap.NewNop(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a climb",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().StringVar(&logDate, "date", "", "session date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&logGrade, "grade", "", "grade label, e.g. V4")
	cmd.Flags().BoolVar(&logCustom, "custom-grade", false, "record the grade as a custom label")
	cmd.Flags().IntVar(&logAttempts, "attempts", 1, "number of attempts")
	cmd.Flags().BoolVar(&logSent, "sent", false, "the climb was sent")
	cmd.Flags().StringArrayVar(&logTags, "tag", nil, "style tag (repeatable)")
	cmd.Flags().StringVar(&logNotes, "notes", "", fmt.Sprintf("notes (max %d characters)", model.MaxNotesLen))
	if err := cmd.MarkFlagRequired("grade"); err != nil {
		panic(err)
	}
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	_, logger, st, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	climb := buildClimb(time.Now())
	stored, err := st.InsertClimb(cmd.Context(), climb)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) && verr.Field == "grade" && climb.GradeSystem == grade.SystemVScale {
			return fmt.Errorf("%w (use --custom-grade for gym-specific labels)", err)
		}
		return fmt.Errorf("failed to log climb: %w", err)
	}
	logger.Debug("logged climb", zap.String("id", stored.ID), zap.String("date", stored.Date))

	status := "attempt"
	if stored.IsSent {
		status = "send"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s on %s (%s)\n", stored.Grade, status, dates.DisplayKey(stored.Date), stored.ID)
	return err
}

func buildClimb(now time.Time) model.Climb {
	date := strings.TrimSpace(logDate)
	if date == "" {
		date = dates.Today(now).Key()
	}
	system := grade.SystemVScale
	if logCustom {
		system = grade.SystemCustom
	}
	tags := make([]string, 0, len(logTags))
	for _, tag := range logTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return model.Climb{
		Date:        date,
		Grade:       strings.TrimSpace(logGrade),
		GradeSystem: system,
		Attempts:    logAttempts,
		IsSent:      logSent,
		Tags:        tags,
		Notes:       logNotes,
	}
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List climbs",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().StringVar(&listTag, "tag", "", "style filter")
	cmd.Flags().StringSliceVar(&listGrades, "grade", nil, "grade filter (repeatable)")
	cmd.Flags().IntVar(&listPage, "page", 1, "page number")
	cmd.Flags().IntVar(&listPageSize, "page-size", stats.DefaultPageSize, "climbs per page")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, logger, st, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	applyIntConfig(cmd, "page-size", &listPageSize, fileCfg.Dashboard.PageSize)

	sel, err := buildSelection(listTag, listGrades)
	if err != nil {
		return err
	}
	if err := validatePositive("--page-size", listPageSize); err != nil {
		return err
	}
	report, err := stats.LoadReport(cmd.Context(), st, sel, listPage, listPageSize)
	if err != nil {
		return fmt.Errorf("failed to load climbs: %w", err)
	}
	logging.LogRejected(logger, report.Rejected)
	return stats.RenderClimbTable(cmd.OutOrStdout(), report.Page, !sel.IsZero())
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show send-rate summary and trend",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
	cmd.Flags().StringVar(&summaryTag, "tag", "", "style filter for the trend")
	cmd.Flags().StringSliceVar(&summaryGrades, "grade", nil, "grade filter for the trend (repeatable)")
	cmd.Flags().IntVar(&summaryPlotHeight, "plot-height", defaultPlotHeight, "trend plot height in rows")
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, logger, st, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	applyIntConfig(cmd, "plot-height", &summaryPlotHeight, fileCfg.Dashboard.PlotHeight)
	if err := validatePositive("--plot-height", summaryPlotHeight); err != nil {
		return err
	}

	sel, err := buildSelection(summaryTag, summaryGrades)
	if err != nil {
		return err
	}
	report, err := stats.LoadReport(cmd.Context(), st, sel, 1, stats.DefaultPageSize)
	if err != nil {
		return fmt.Errorf("failed to load climbs: %w", err)
	}
	logging.LogRejected(logger, report.Rejected)
	return writeSummary(cmd.OutOrStdout(), report, summaryPlotHeight)
}

func writeSummary(w io.Writer, report stats.Report, plotHeight int) error {
	if err := stats.RenderSummary(w, report.Summary); err != nil {
		return err
	}
	title := "Send Rate Trend"
	if !report.Selection.IsZero() {
		title += " (" + describeSelection(report.Selection) + ")"
	}
	if err := stats.PlotTrend(w, title, report.Trend, 0, plotHeight); err != nil {
		return err
	}
	if len(report.Trend) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := stats.RenderTrendDetails(w, report.Trend); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := stats.RenderStyleTable(w, stats.StylesByFrequency(report.Filtered)); err != nil {
		return err
	}
	weakest := stats.WeakestStyles(report.Filtered, weakestStyleCount)
	if len(weakest) == 0 {
		return nil
	}
	names := make([]string, 0, len(weakest))
	for _, s := range weakest {
		names = append(names, fmt.Sprintf("%s %d%%", s.Style, s.SendRate))
	}
	_, err := fmt.Fprintf(w, "Weakest styles: %s\n", strings.Join(names, ", "))
	return err
}

func describeSelection(sel model.FilterSelection) string {
	parts := make([]string, 0, 2)
	if sel.ActiveTag != "" {
		parts = append(parts, "style="+sel.ActiveTag)
	}
	if len(sel.SelectedGrades) > 0 {
		parts = append(parts, "grades="+strings.Join(sel.SelectedGrades, ","))
	}
	return strings.Join(parts, " ")
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a climb",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	_, logger, st, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	id := strings.TrimSpace(args[0])
	if err := st.DeleteClimb(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no climb with id %q", id)
		}
		return err
	}
	logger.Debug("deleted climb", zap.String("id", id))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return err
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, logger, st, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)

	if err := warnRejected(cmd.Context(), st, logger); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(st, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, serveAddr, router, logger)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List style tags and grade buckets",
		Args:  cobra.NoArgs,
		RunE:  runStylesCmd,
	}
}

func runStylesCmd(cmd *cobra.Command, _ []string) error {
	return writeStyles(cmd.OutOrStdout())
}

func writeStyles(w io.Writer) error {
	lines := []string{"Styles:"}
	for _, s := range model.Styles {
		lines = append(lines, "  "+s)
	}
	lines = append(lines, "", "Grade buckets:")
	for _, b := range grade.Ordered() {
		lines = append(lines, fmt.Sprintf("  %-16s %s", b.Label(), b.Color()))
	}
	lines = append(lines, fmt.Sprintf("  %-16s %s", grade.Unclassified.Label(), grade.Unclassified.Color()))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// buildSelection validates filter flags against the style and grade vocabularies.
func buildSelection(tag string, grades []string) (model.FilterSelection, error) {
	sel := model.FilterSelection{ActiveTag: strings.TrimSpace(tag)}
	if sel.ActiveTag != "" && !model.IsStyle(sel.ActiveTag) {
		return model.FilterSelection{}, fmt.Errorf("unknown style %q (see: climblog styles)", sel.ActiveTag)
	}
	for _, g := range grades {
		g = strings.TrimSpace(g)
		if g == "" || sel.HasGrade(g) {
			continue
		}
		sel.SelectedGrades = append(sel.SelectedGrades, g)
	}
	return sel, nil
}

// warnRejected logs malformed stored records once before an interactive or
// long-running command starts.
func warnRejected(ctx context.Context, src stats.ClimbLister, logger *zap.Logger) error {
	records, err := src.ListClimbs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load climbs: %w", err)
	}
	_, rejected := stats.Partition(records)
	logging.LogRejected(logger, rejected)
	return nil
}

func validatePositive(flag string, v int) error {
	if v < 1 {
		return fmt.Errorf("%s must be >= 1", flag)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), value...)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# climblog configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# name = "Climber"        # Name shown in the dashboard header
# page-size = %d          # Climbs per page
# tag = "Crimp"           # Default style filter
# grades = ["V3", "V4"]   # Default grade filter
# plot-height = %d         # Trend plot height in rows

[log]
# level = %q          # debug, info, warn, error
# format = %q      # console or json

[serve]
# addr = %q  # HTTP API listen address
`,
		stats.DefaultPageSize,
		defaultPlotHeight,
		defaultLogLevel,
		defaultLogFormat,
		defaultAddr,
	)
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush; syncing stderr fails on some terminals.
		_ = err
	}
}
