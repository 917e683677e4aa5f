package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paranoia/internal/config"
	"paranoia/internal/layout"
	"paranoia/internal/logging"
	"paranoia/internal/orga"
	"paranoia/internal/render"
	"paranoia/internal/watch"
)

var (
	only      []int
	output    string
	watchFlag bool
)

var printCmd = &cobra.Command{
	Use:   "print [root_dir]",
	Short: "Render the organized cards to a PDF",
	Long: `Lays out one card per player, ordered by serial number, and writes them to a
PDF. Print it double-sided, flipping on the short edge, then for every card:
cut along the middle, fold the right half behind, fold the bottom half behind.
The folded card shows the serial number on one side and the player's name on
the other; the target and attributes are inside.

Use --only to reprint lost cards and --watch while tuning the print settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	root, err := rootDir(args)
	if err != nil {
		return err
	}
	out := output
	if out == "" {
		out = filepath.Join(root, "output.pdf")
	}

	if !watchFlag {
		return printCards(root, out)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndPrint(ctx, root, out)
}

// printCards renders the stored organization of root into out.
func printCards(root, out string) error {
	file, err := config.Load(config.Path(root))
	if err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return err
	}

	store := orga.Store{Root: root}
	a, err := store.LoadAssignment(orga.DefaultCodec)
	if err != nil {
		return err
	}

	var opts []layout.Option
	if len(only) > 0 {
		opts = append(opts, layout.Only(only...))
	}
	pages, err := layout.Layout(a, file.Config, opts...)
	if err != nil {
		return err
	}
	logging.For(logger, logging.CategoryLayout).Debug("Cards laid out",
		zap.Stringer("id", a.ID),
		zap.Int("pages", len(pages)),
		zap.String("page_size", file.Config.Page().Name))

	if err := render.New(logging.For(logger, logging.CategoryRender)).WriteFile(out, pages); err != nil {
		return err
	}
	logging.For(logger, logging.CategoryRender).Info("Cards printed",
		zap.Stringer("id", a.ID),
		zap.Int("cards", len(pages)-1),
		zap.String("output", out))
	return nil
}

// watchAndPrint prints once, then again after every change to the
// configuration or the organization, until ctx ends.
func watchAndPrint(ctx context.Context, root, out string) error {
	log := logging.For(logger, logging.CategoryWatch)
	w, err := watch.New(root, []string{config.FileName, orga.FileName}, watch.WithLogger(log))
	if err != nil {
		return err
	}
	if err := printCards(root, out); err != nil {
		log.Warn("Print failed, waiting for changes", zap.Error(err))
	}
	err = w.Run(ctx, func(ctx context.Context, paths []string) error {
		return printCards(root, out)
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
