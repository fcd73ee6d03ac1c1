package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MatthewNewland/rcvplus/archive"
	"github.com/MatthewNewland/rcvplus/ballotfile"
	"github.com/MatthewNewland/rcvplus/core"
	"github.com/MatthewNewland/rcvplus/report"
	"github.com/MatthewNewland/rcvplus/tabulate"
)

// Exit codes: 0 every seat filled, 1 a run left seats open, 2 invalid input
// or runtime error.
const (
	exitOK         = 0
	exitUnfilled   = 1
	exitInvalidRun = 2
)

var errUnfilled = errors.New("not every seat was filled")

type options struct {
	configPath string
	method     string
	seats      int
	tieBreak   string
	format     string
	archive    string
	parallel   int
	verbose    bool

	logger *zap.Logger
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUnfilled):
		return exitUnfilled
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalidRun
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "rcvtally <ballots>...",
		Short: "Tabulate ranked-choice and proportional elections",
		Long: `rcvtally counts elections with IRV, bottom-two-runoff IRV, multi-seat STV
or Webster/Sainte-Laguë apportionment and prints a round-by-round report.

Each argument is a ballot file (JSON, YAML or CBOR) or inline JSON:
  [{"ranking": ["Alice", "Bob"], "count": 12}, {"ranking": ["Bob"]}]

Webster reads party votes instead, as a mapping or a list:
  {"Red": 53000, "Blue": 24000}

Several inputs are counted concurrently with the same settings.

Settings are read from --config, then RCVTALLY_* environment variables,
then flags.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zapcore.InfoLevel
			if opts.verbose {
				level = zapcore.DebugLevel
			}
			opts.logger = zap.New(zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(cmd.ErrOrStderr()),
				level,
			))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTally(cmd, opts, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML election config")
	pf.StringVar(&opts.archive, "archive", "", "sqlite file to archive outcomes in")
	pf.StringVar(&opts.format, "format", tabulate.FormatText, "output format: text, json or cbor")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log every round")

	f := root.Flags()
	f.StringVarP(&opts.method, "method", "m", "default", "counting method: irv, btr (btr-irv, b2), stv, webster (pr)")
	f.IntVar(&opts.seats, "seats", 1, "seats to fill")
	f.StringVar(&opts.tieBreak, "tie-break", "input", "tie order: input or lexical")
	f.IntVar(&opts.parallel, "parallel", 0, "elections counted at once, 0 for no limit")

	root.AddCommand(newHistoryCmd(opts), newShowCmd(opts))
	return root
}

// resolveConfig layers the config file, environment and explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *options) (tabulate.Config, error) {
	cfg, err := tabulate.LoadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = opts.method
	}
	if flags.Changed("seats") {
		cfg.Seats = opts.seats
	}
	if flags.Changed("tie-break") {
		cfg.TieBreak = opts.tieBreak
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("archive") {
		cfg.Archive = opts.archive
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
	return cfg, cfg.Validate()
}

func runTally(cmd *cobra.Command, opts *options, inputs []string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	jobs := make([]tabulate.Job, 0, len(inputs))
	for _, input := range inputs {
		job, err := loadJob(cfg, input)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}

	runner := tabulate.NewRunner(opts.logger)
	outcomes, err := runner.RunBatch(cmd.Context(), jobs, cfg.Parallel)
	if err != nil {
		return err
	}

	docs := make([]*report.Document, 0, len(outcomes))
	for _, out := range outcomes {
		docs = append(docs, out.Document())
	}

	if cfg.Archive != "" {
		if err := archiveDocs(cmd.Context(), cfg.Archive, docs); err != nil {
			return err
		}
		opts.logger.Info("outcomes archived", zap.String("archive", cfg.Archive), zap.Int("runs", len(docs)))
	}

	if err := writeDocs(cmd.OutOrStdout(), cfg.Format, docs); err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.Method == core.MethodSTV && len(doc.Winners) < doc.Seats {
			return errUnfilled
		}
	}
	return nil
}

func loadJob(cfg tabulate.Config, input string) (tabulate.Job, error) {
	name := input
	if trimmed := strings.TrimSpace(input); strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		name = "inline"
	}
	job, err := cfg.Job(name)
	if err != nil {
		return job, err
	}

	if tabulate.IsPartyMethod(job.Method) {
		job.Parties, err = ballotfile.LoadParties(input)
	} else {
		job.Ballots, err = ballotfile.LoadBallots(input)
	}
	if err != nil {
		return job, fmt.Errorf("load %s: %w", name, err)
	}
	return job, nil
}

func archiveDocs(ctx context.Context, path string, docs []*report.Document) error {
	store, err := archive.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, doc := range docs {
		if err := store.Save(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func writeDocs(w io.Writer, format string, docs []*report.Document) error {
	for i, doc := range docs {
		var err error
		switch format {
		case tabulate.FormatJSON:
			err = report.EncodeJSON(w, doc)
		case tabulate.FormatCBOR:
			err = report.EncodeCBOR(w, doc)
		default:
			if i > 0 {
				fmt.Fprintln(w)
			}
			if len(docs) > 1 {
				fmt.Fprintf(w, "== run %s ==\n", doc.RunID)
			}
			err = report.RenderText(w, doc)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <fingerprint>",
		Short: "List archived runs over the same input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openArchive(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.ListByHash(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if cfg.Format == tabulate.FormatJSON {
				return writeJSON(w, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(w, "no archived runs for %s\n", args[0])
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Run", "Recorded", "Method", "Seats", "Winners")
			for _, e := range entries {
				t.Row(e.RunID, humanize.Time(e.CreatedAt), e.Method, fmt.Sprint(e.Seats), strings.Join(e.Winners, ", "))
			}
			fmt.Fprintln(w, t.String())
			return nil
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openArchive(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDocs(cmd.OutOrStdout(), cfg.Format, []*report.Document{doc})
		},
	}
}

func openArchive(cmd *cobra.Command, opts *options) (*archive.Store, tabulate.Config, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, cfg, err
	}
	if cfg.Archive == "" {
		return nil, cfg, fmt.Errorf("no archive configured: pass --archive or set %sARCHIVE", tabulate.EnvPrefix)
	}
	store, err := archive.Open(cmd.Context(), cfg.Archive)
	if err != nil {
		return nil, cfg, err
	}
	return store, cfg, nil
}
