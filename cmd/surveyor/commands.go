package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HendryAvila/surveyor/internal/config"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/render"
	surveyorserver "github.com/HendryAvila/surveyor/internal/server"
	"github.com/HendryAvila/surveyor/internal/session"
	"github.com/HendryAvila/surveyor/internal/store"
)

var (
	// Global flags
	verbose   bool
	dataDir   string
	formsDir  string
	cacheSize int
	noWatch   bool

	// render flags
	answers  []string
	markdown bool
	summary  bool

	// fill flags
	save bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "surveyor",
	Short: "Questionnaire filling over MCP",
	Long: `Surveyor serves questionnaire definitions to AI hosts over MCP.

Each session mirrors a definition into a response tree and presents only the
items whose enableWhen conditions hold for the answers given so far.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "surveyor": {
        "command": "surveyor",
        "args": ["serve"]
      }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		zc := zap.NewProductionConfig()
		if cfg.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Print the items a definition presents for the given answers",
	Long: `Loads a definition, applies the --answer values in order and prints the
items that are enabled afterwards.

Example:
  surveyor render forms/intake.yaml --answer smoker=true --answer packs=2`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var fillCmd = &cobra.Command{
	Use:   "fill <file>",
	Short: "Fill in a definition interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runFill,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("surveyor v%s\n", surveyorserver.Version)
	},
}

func init() {
	defaults := config.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&dataDir, "data-dir", defaults.DataDir, "directory of the response archive (env "+config.EnvDataDir+")")
	pf.StringVar(&formsDir, "forms-dir", defaults.FormsDir, "questionnaire catalog directory (env "+config.EnvFormsDir+")")
	pf.IntVar(&cacheSize, "cache-size", defaults.CacheSize, "parsed definitions kept in memory (env "+config.EnvCacheSize+")")
	pf.BoolVar(&noWatch, "no-watch", false, "do not watch the catalog for changes")

	renderCmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "linkId=value answer to apply (repeatable)")
	renderCmd.Flags().BoolVar(&markdown, "markdown", false, "print markdown instead of styled text")
	renderCmd.Flags().BoolVar(&summary, "summary", false, "with --markdown, print linkIds and answers only")

	fillCmd.Flags().BoolVar(&save, "save", false, "save the response to the archive when done")

	rootCmd.AddCommand(serveCmd, renderCmd, fillCmd, versionCmd)
}

// applyFlags overlays flags the user actually set onto c.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("data-dir") {
		c.DataDir = dataDir
	}
	if f.Changed("forms-dir") {
		c.FormsDir = formsDir
	}
	if f.Changed("cache-size") {
		c.CacheSize = cacheSize
	}
	if noWatch {
		c.Watch = false
	}
	if verbose {
		c.Verbose = true
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := surveyorserver.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	return server.ServeStdio(s)
}

func openFile(path string) (*session.Session, error) {
	q, err := questionnaire.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return session.New(q, path, logger), nil
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	for _, a := range answers {
		linkID, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("--answer %q: want linkId=value", a)
		}
		if _, err := s.Answer(strings.TrimSpace(linkID), value); err != nil {
			return fmt.Errorf("--answer %q: %w", a, err)
		}
	}

	items, err := s.Visible()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if markdown {
		level := render.DetailStandard
		if summary {
			level = render.DetailSummary
		}
		fmt.Fprint(out, render.Markdown(items, level))
		return nil
	}
	fmt.Fprintln(out, render.Terminal(s.Questionnaire(), items))
	return nil
}

func runFill(cmd *cobra.Command, args []string) error {
	s, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if err := render.Fill(s, render.HuhAsker{}, out); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, render.Styles.Missing.Render("Aborted."))
			return nil
		}
		return err
	}

	items, err := s.Visible()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, render.Terminal(s.Questionnaire(), items))

	if err := s.Complete(); err != nil {
		if !errors.Is(err, session.ErrIncomplete) {
			return err
		}
		fmt.Fprintln(out, render.Styles.Missing.Render(err.Error()))
	}
	if !save {
		return nil
	}

	archive, err := store.New(store.DefaultConfig(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = archive.Close() }()

	doc := s.Document()
	if err := archive.Save(doc); err != nil {
		return err
	}
	fmt.Fprintln(out, render.Styles.Answer.Render(fmt.Sprintf("Saved response %s (%s).", doc.ID, doc.Status)))
	return nil
}
