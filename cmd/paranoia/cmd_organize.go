package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paranoia/cmd/paranoia/ui"
	"paranoia/internal/assign"
	"paranoia/internal/config"
	"paranoia/internal/logging"
	"paranoia/internal/orga"
	"paranoia/internal/schema"
	"paranoia/internal/types"
)

var (
	force      bool
	printTable bool
	assumeYes  bool

	// confirm is swapped out by tests.
	confirm = func(question string) (bool, error) {
		return ui.Confirm(question, os.Stdin, os.Stderr, styles)
	}
	newSource = assign.NewSecureSource
)

var organizeCmd = &cobra.Command{
	Use:   "organize [root_dir]",
	Short: "Draw targets and attributes and store them in the organization file",
	Long: `Reads paranoia.yml and the value lists next to it, builds a single loop of
targets over all players, hands out the field values and stores the result,
obfuscated, in <root_dir>/.organization.

An existing organization is only replaced with --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	root, err := rootDir(args)
	if err != nil {
		return err
	}
	log := logging.For(logger, logging.CategoryOrganize)

	store := orga.Store{Root: root}
	if store.Exists() && !force {
		return orga.ErrAlreadyOrganized
	}

	a, err := organize(root, log)
	if err != nil {
		return err
	}

	if err := store.SaveAssignment(orga.DefaultCodec, a, force); err != nil {
		return err
	}
	logging.For(logger, logging.CategoryStore).Info("Organization saved",
		zap.Stringer("id", a.ID),
		zap.String("path", store.Path()))

	if printTable {
		ok := assumeYes
		if !ok {
			if ok, err = confirm("Are you sure you want to print the table?"); err != nil {
				return err
			}
		}
		if ok {
			fmt.Fprint(cmd.OutOrStdout(), ui.OrganizationTable(a).View(styles))
		}
	}
	return nil
}

// organize loads the game definition under root and draws a new
// organization.
func organize(root string, log *zap.Logger) (*types.Assignment, error) {
	file, err := config.Load(config.Path(root))
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(file.Fields); err != nil {
		return nil, err
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	logging.For(logger, logging.CategoryConfig).Debug("Configuration loaded",
		zap.String("path", config.Path(root)),
		zap.Int("fields", len(file.Fields)))

	pools, err := config.LoadPools(root, file.Fields)
	if err != nil {
		return nil, err
	}

	player, _ := schema.PlayerField(file.Fields)
	var fields []assign.FieldPool
	for _, f := range file.Fields {
		if f.IsPlayer {
			continue
		}
		fields = append(fields, assign.FieldPool{Spec: f, Pool: pools[f.Name]})
	}

	a, err := assign.Generate(player.Name, pools[player.Name], fields, newSource())
	if err != nil {
		var ce *types.CountError
		if errors.As(err, &ce) {
			log.Debug("Value pool rejected", zap.String("field", ce.Field), zap.Int("entries", ce.Got))
		}
		return nil, err
	}
	log.Info("Game organized",
		zap.Stringer("id", a.ID),
		zap.Int("players", a.Len()),
		zap.Int("fields", len(a.Fields)))
	return a, nil
}
