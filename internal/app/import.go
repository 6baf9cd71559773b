package app

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/otscore/internal/association"
	"github.com/blackwell-systems/otscore/internal/config"
	"github.com/blackwell-systems/otscore/internal/opentargets"
	"github.com/blackwell-systems/otscore/internal/store"
)

var (
	importReset bool
	importQuiet bool

	importCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Load an Open Targets association export into a local database",
		Long: `Load target-disease associations from an Open Targets JSON export into a
local SQLite database that can be queried offline with --db.

Accepted formats:
  • an API response envelope: {"data": [ ...associations... ]}
  • a JSON array of association objects
  • JSON lines, one association object per line (as in the data dumps)

Files ending in .gz are decompressed on the fly. Each association must carry
target.id, disease.id and association_score.overall.`,
		Example: `  # Import an API response saved with curl
  otscore import htt.json

  # Replace the mirror with a compressed data dump
  otscore import --reset associations.json.gz

  # Import into a specific database file
  otscore import --db /data/ot.db associations.json`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
)

func init() {
	importCmd.Flags().BoolVar(&importReset, "reset", false, "remove existing associations before importing")
	importCmd.Flags().BoolVar(&importQuiet, "quiet", false, "suppress output")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path, err := getDBPath(cfg)
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	table, err := readExport(args[0])
	if err != nil {
		return err
	}

	db, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if importReset {
		if err := db.ResetAssociations(ctx); err != nil {
			return err
		}
	}

	n, err := db.InsertAssociations(ctx, table)
	if err != nil {
		return err
	}

	total, err := db.CountAssociations(ctx)
	if err != nil {
		return err
	}

	if !importQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d associations into %s (%d total)\n", n, path, total)
	}
	return nil
}

// readExport decodes an export file, decompressing .gz files.
func readExport(path string) (association.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	table, err := opentargets.ReadExport(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}
