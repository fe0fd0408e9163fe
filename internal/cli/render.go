package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/pipeline"
	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/rng"
	"github.com/matzehuels/uniquepfp/pkg/seed"
)

// defaultJobs is how many avatars the render command draws at once.
const defaultJobs = 4

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file (single avatar) or directory (several)
	mode        string // grid, voronoi-euc, voronoi-man
	size        int    // edge length in pixels; 0 uses the config's output_size
	formats     []string
	supersample bool   // render at 2x and downscale
	rng         string // random source; empty uses the config's rng
	jobs        int    // concurrent renders
}

// renderOutcome is the result of one username in a batch.
type renderOutcome struct {
	username string
	result   *pipeline.Result
	paths    []string
	elapsed  time.Duration
}

// renderCommand creates the render command for writing avatars to disk.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{jobs: defaultJobs}

	cmd := &cobra.Command{
		Use:   "render <username>...",
		Short: "Render avatars for one or more usernames",
		Long: `Render avatars for one or more usernames.

Each username is hashed to a seed that fully determines the picture, so
rendering the same name twice yields identical files.

With a single username, --output names the file (or its base name when
several formats are requested). With several usernames, --output names the
directory the files are written to.`,
		Example: `  uniquepfp render octocat
  uniquepfp render -m grid -s 256 -o avatar.png octocat
  uniquepfp render -f png,json --supersample -o out/ alice bob carol`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if _, err := render.ParseMode(opts.mode); err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidMode, err, "--mode")
			}
			if opts.jobs < 1 {
				return perrors.New(perrors.ErrCodeInvalidInput, "--jobs must be at least 1")
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one username) or directory (several)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(render.DefaultMode), "render mode: grid, voronoi-euc, voronoi-man")
	cmd.Flags().IntVarP(&opts.size, "size", "s", 0, "edge length in pixels (default: output_size from config)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.FormatPNG, "output format(s): png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.supersample, "supersample", false, "render at 2x and downscale for smoother edges")
	cmd.Flags().StringVar(&opts.rng, "rng", "", "random source: "+strings.Join(rng.Names(), ", ")+" (default: rng from config)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultJobs, "number of avatars rendered concurrently")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(render.Modes))
		for i, m := range render.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runRender renders every username concurrently and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, usernames []string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.size == 0 {
		opts.size = cfg.OutputSize
	}
	if opts.rng == "" {
		opts.rng = cfg.RNG
	}

	usernames = uniqueUsernames(usernames)
	stems := batchStems(usernames)
	multi := len(usernames) > 1
	if multi && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	logger := loggerFromContext(ctx)
	runner := c.newRunner()
	defer runner.Close()

	prog := newProgress(logger)
	total := len(usernames)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering 0/%d", total))
	spinner.Start()
	var finished atomic.Int32

	outcomes := make([]renderOutcome, len(usernames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)

	for i, username := range usernames {
		g.Go(func() error {
			start := time.Now()
			result, err := runner.Execute(gctx, pipeline.Options{
				Username:    username,
				Mode:        opts.mode,
				Size:        opts.size,
				Supersample: opts.supersample,
				RNG:         opts.rng,
				Formats:     opts.formats,
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("%q: %w", username, err)
			}

			paths, err := writeArtifacts(result.Artifacts, opts.formats, stems[i], opts.output, multi)
			if err != nil {
				return fmt.Errorf("%q: %w", username, err)
			}
			outcomes[i] = renderOutcome{username: username, result: result, paths: paths, elapsed: time.Since(start)}
			spinner.SetMessage(fmt.Sprintf("Rendering %d/%d", finished.Add(1), total))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	for _, o := range outcomes {
		printSuccess("%s", StyleHighlight.Render(displayName(o.username)))
		fmt.Println(renderStatsLine(o.result.Seed, opts.size, o.elapsed, o.result.CacheInfo.RenderHit))
		for _, p := range o.paths {
			printFile(p)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d avatar(s)", total))
	return nil
}

// uniqueUsernames drops repeated usernames, keeping the first occurrence.
func uniqueUsernames(usernames []string) []string {
	seen := make(map[string]bool, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

// batchStems assigns each username a file stem that no other username in
// the batch shares. Stems are compared case-insensitively. Colliding stems
// get the username's seed appended, and a counter if that still collides.
func batchStems(usernames []string) []string {
	counts := make(map[string]int, len(usernames))
	for _, u := range usernames {
		counts[strings.ToLower(fileStem(u))]++
	}

	stems := make([]string, len(usernames))
	used := make(map[string]bool, len(usernames))
	for i, u := range usernames {
		stem := fileStem(u)
		if counts[strings.ToLower(stem)] > 1 {
			stem = fmt.Sprintf("%s-%d", stem, seed.FromString(u))
		}
		base := stem
		for n := 2; used[strings.ToLower(stem)]; n++ {
			stem = fmt.Sprintf("%s-%d", base, n)
		}
		used[strings.ToLower(stem)] = true
		stems[i] = stem
	}
	return stems
}

// writeArtifacts writes each format to its output path and returns the
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, stem, output string, multi bool) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(output, stem, format, len(formats) > 1, multi)
		if err := perrors.ValidateOutputPath(path); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives the file for one artifact.
//
//   - multi: output is a directory (or the working directory when empty)
//   - single format with an explicit output: output is used verbatim
//   - otherwise: output (minus a known format extension) or stem is the base
//     name and the format is the extension
func outputPath(output, stem, format string, multiFormat, multi bool) string {
	if multi {
		return filepath.Join(output, stem+"."+format)
	}
	if output == "" {
		return stem + "." + format
	}
	if !multiFormat {
		return output
	}
	return basePath(output) + "." + format
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// fileStem turns a username into a safe file name stem.
func fileStem(username string) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || unicode.IsControl(r) || unicode.IsSpace(r):
			return '_'
		}
		return r
	}, username)
	stem = strings.TrimLeft(stem, ".")
	if stem == "" {
		return "avatar"
	}
	return stem
}

// displayName quotes the empty username so it is visible in output.
func displayName(username string) string {
	if username == "" {
		return `""`
	}
	return username
}
