package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/thiagokokada/relpick/internal/buildinfo"
	"github.com/thiagokokada/relpick/internal/config"
	"github.com/thiagokokada/relpick/internal/failure"
	"github.com/thiagokokada/relpick/internal/git"
	"github.com/thiagokokada/relpick/internal/jira"
	"github.com/thiagokokada/relpick/internal/preview"
	"github.com/thiagokokada/relpick/internal/release"
	"github.com/thiagokokada/relpick/internal/script"
)

// app holds the process dependencies so tests can replace them.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (*config.Config, error)
	httpClient *http.Client
	now        func() time.Time
	isTerminal func(io.Writer) bool
}

type generateOptions struct {
	releaseID      string
	targetBranch   string
	output         string
	repo           string
	sourceRef      string
	gitBackend     string
	sortBy         string
	strategyOption string
	recordOrigin   bool
	includeMerges  bool
	manifest       string
	print          bool
	theme          string
}

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	a := &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		now:        time.Now,
		isTerminal: isTerminal,
	}
	return a.run(ctx, os.Args[1:])
}

func (a *app) run(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && failure.KindOf(err) == failure.KindUnknown {
		// Anything unclassified comes from cobra itself: bad flags, unknown
		// commands or stray arguments.
		return failure.Usage("parse arguments", err)
	}
	return err
}

func (a *app) newRootCommand() *cobra.Command {
	var (
		opts    generateOptions
		verbose bool
	)
	root := &cobra.Command{
		Use:   "relpick --release-id <id> --target-branch <branch>",
		Short: "Generate a cherry-pick script for the commits of a Jira release",
		Long: `relpick looks up every issue of a Jira release, finds the commits that
mention those issues and writes a shell script that cherry-picks them, oldest
first, onto a target branch.

Jira credentials are read from JIRA_BASE_URL, JIRA_USERNAME and JIRA_API_TOKEN,
or from a .env file in the working directory.`,
		Version:       buildinfo.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd.Context(), opts)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.Flags()
	flags.StringVar(&opts.releaseID, "release-id", "", "Jira release (fix version) id")
	flags.StringVar(&opts.targetBranch, "target-branch", "", "branch the script checks out and cherry-picks onto")
	flags.StringVarP(&opts.output, "output", "o", "", "script path (default cherry_pick_release_<id>.sh)")
	flags.StringVar(&opts.repo, "repo", ".", "path inside the git repository to scan")
	flags.StringVar(&opts.sourceRef, "source-ref", "HEAD", "revision whose history is scanned for commits")
	flags.StringVar(&opts.gitBackend, "git-backend", string(git.BackendNative), "git implementation: native or cli")
	flags.StringVar(&opts.sortBy, "sort-by", string(release.SortByAuthor), "commit timestamp to order by: author or committer")
	flags.StringVarP(&opts.strategyOption, "strategy-option", "X", "", "merge strategy option passed to every cherry-pick, e.g. theirs (conflicts are then resolved automatically)")
	flags.BoolVarP(&opts.recordOrigin, "record-origin", "x", false, "append the original commit hash to picked commit messages")
	flags.BoolVar(&opts.includeMerges, "include-merges", false, "also pick merge commits (with -m 1)")
	flags.StringVar(&opts.manifest, "manifest", "", "also write a YAML manifest of the picked commits to this path")
	flags.BoolVar(&opts.print, "print", false, "also print the script to stdout")
	flags.StringVar(&opts.theme, "theme", preview.ThemeAuto.String(), "color theme for --print: auto, light, or dark")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(a.newCheckAuthCommand())
	return root
}

func (a *app) newCheckAuthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-auth",
		Short: "Verify the Jira credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher, err := a.newFetcher()
			if err != nil {
				return err
			}
			name, err := fetcher.CheckAuth(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Authenticated as %s\n", name)
			return nil
		},
	}
}

func (a *app) setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
}

func (a *app) newFetcher() (*jira.Fetcher, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return jira.NewFetcher(cfg.Jira, a.httpClient)
}

func (a *app) generate(ctx context.Context, opts generateOptions) error {
	if opts.releaseID == "" {
		return failure.Usage("parse arguments", errors.New("--release-id is required"))
	}
	if opts.targetBranch == "" {
		return failure.Usage("parse arguments", errors.New("--target-branch is required"))
	}
	backendKind, err := git.ParseBackendKind(opts.gitBackend)
	if err != nil {
		return failure.Usage("parse arguments", err)
	}
	sortBy, err := release.ParseSortKey(opts.sortBy)
	if err != nil {
		return failure.Usage("parse arguments", err)
	}
	output := opts.output
	if output == "" {
		output = script.DefaultOutput(opts.releaseID)
	}

	fetcher, err := a.newFetcher()
	if err != nil {
		return err
	}
	repo, err := git.Open(opts.repo, backendKind)
	if err != nil {
		return err
	}
	if backendKind == git.BackendCLI {
		if version, err := git.GitVersion(); err == nil {
			slog.Debug("Using git executable", slog.String("version", version), slog.String("min", git.MinGitVersion()))
		}
	}
	preflight(repo, opts.targetBranch)

	pipeline := &release.Pipeline{Issues: fetcher, Commits: repo}
	plan, err := pipeline.Run(ctx, release.Options{
		ReleaseID:     opts.releaseID,
		SourceRef:     opts.sourceRef,
		SortBy:        sortBy,
		IncludeMerges: opts.includeMerges,
	})
	if err != nil {
		return err
	}

	scriptOpts := script.Options{
		TargetBranch:   opts.targetBranch,
		StrategyOption: opts.strategyOption,
		RecordOrigin:   opts.recordOrigin,
		GeneratedAt:    a.now(),
		Version:        buildinfo.String(),
	}
	var buf bytes.Buffer
	if err := script.Render(&buf, plan, scriptOpts); err != nil {
		return failure.Usage("render script", err)
	}
	// Neither file is left behind when the other cannot be written.
	if opts.manifest != "" {
		data, err := script.NewManifest(plan, scriptOpts).Marshal()
		if err != nil {
			return failure.IO("encode manifest", err)
		}
		if err := script.WriteFile(opts.manifest, data, 0o644); err != nil {
			return err
		}
	}
	if err := script.WriteFile(output, buf.Bytes(), script.ScriptMode); err != nil {
		if opts.manifest != "" {
			_ = os.Remove(opts.manifest)
		}
		return err
	}
	slog.Info("Cherry-pick script generated", slog.String("path", output), slog.Int("commits", len(plan.Commits)))
	if opts.manifest != "" {
		slog.Info("Manifest written", slog.String("path", opts.manifest))
	}

	if opts.print {
		color := a.isTerminal(a.stdout)
		if err := preview.Print(a.stdout, buf.String(), color, preview.ThemePreferenceFromString(opts.theme)); err != nil {
			return failure.IO("print script", err)
		}
	}
	return nil
}

// preflight warns about conditions that make the generated script likely to
// fail when run from this checkout. It never aborts the run.
func preflight(repo *git.Service, targetBranch string) {
	local, err := repo.HasLocalBranch(targetBranch)
	if err != nil {
		slog.Debug("Could not list branches", slog.Any("error", err))
	} else if !local {
		remote, err := repo.HasRemoteBranch(targetBranch)
		switch {
		case err != nil:
			slog.Debug("Could not list remote branches", slog.Any("error", err))
		case remote:
			slog.Warn("Target branch only exists on a remote; git checkout will create it from there", slog.String("branch", targetBranch))
		default:
			slog.Warn("Target branch does not exist in this repository", slog.String("branch", targetBranch))
		}
	}
	dirty, err := repo.HasLocalChanges()
	if err != nil {
		slog.Debug("Could not read worktree status", slog.Any("error", err))
	} else if dirty {
		slog.Warn("Working tree has uncommitted changes; commit or stash them before running the script")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
