package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/otscore/internal/analyzer"
	"github.com/blackwell-systems/otscore/internal/association"
	"github.com/blackwell-systems/otscore/internal/config"
	"github.com/blackwell-systems/otscore/internal/output"
)

var (
	dbPath string

	targetID   string
	diseaseID  string
	verbose    bool
	apiURL     string
	jsonOutput bool
	parallel   bool

	// errNoQuery is returned when neither -t nor -d was given.
	errNoQuery = errors.New("target or disease has to be specified with the -t or -d flags respectively")

	// RootCmd is the root command for otscore
	RootCmd = &cobra.Command{
		Use:   "otscore",
		Short: "Summarize Open Targets association scores for a target or disease",
		Long: `otscore queries the Open Targets target-disease associations for a target
(e.g. ENSG00000197386) or a disease (e.g. Orphanet_399), lists the
target-disease pairs with their overall association score and prints the
maximum, minimum, mean and sample standard deviation of those scores.

Both -t and -d may be given; each produces its own section, target first.
A query that matches nothing prints a warning and does not stop the other.

Associations come from the Open Targets platform API unless --db points at a
local mirror created with 'otscore import'.

Configuration (environment or .env file):
  OTSCORE_API_URL    API host (default https://platform-api.opentargets.io)
  OTSCORE_PAGE_SIZE  maximum associations per query (default 10000)
  OTSCORE_TIMEOUT    request timeout, e.g. 30s (default 60s)
  OTSCORE_DB         local mirror to query instead of the API

Friendly names such as gene symbols can be mapped to identifiers in
$XDG_CONFIG_HOME/otscore/aliases, one name=identifier per line.`,
		Example: `  # Associations of the HTT gene
  otscore -t ENSG00000197386

  # Associations of Huntington disease, with progress information
  otscore -d Orphanet_399 -v

  # Both, queried concurrently, as JSON
  otscore -t ENSG00000197386 -d Orphanet_399 --parallel --json

  # Query a local mirror instead of the API
  otscore import associations.json
  otscore --db ~/.otscore/associations.db -t ENSG00000197386`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "local association database (default: query the Open Targets API)")

	RootCmd.Flags().StringVarP(&targetID, "target", "t", "", "target ID, e.g. ENSG00000197386")
	RootCmd.Flags().StringVarP(&diseaseID, "disease", "d", "", "disease ID, e.g. Orphanet_399")
	RootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print extra information")
	RootCmd.Flags().StringVar(&apiURL, "api-url", "", "Open Targets API host (overrides OTSCORE_API_URL)")
	RootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	RootCmd.Flags().BoolVar(&parallel, "parallel", false, "run the target and disease queries concurrently")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	// Register subcommands
	RootCmd.AddCommand(importCmd)
}

// Execute runs the root command. An interrupt cancels the in-flight query.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if targetID == "" && diseaseID == "" {
		fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
		return errNoQuery
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	filters, err := buildFilters(targetID, diseaseID)
	if err != nil {
		return err
	}

	q, closeQuerier, err := newQuerier(cfg)
	if err != nil {
		return err
	}
	defer closeQuerier()

	logger := newLogger(cmd.ErrOrStderr(), verbose)
	runner := analyzer.New(q, analyzer.WithLogger(logger), analyzer.WithVerbose(verbose))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var spinner *output.Spinner
	if !verbose {
		spinner = output.NewSpinner(fmt.Sprintf("Querying %s", sourceName(cfg)))
		spinner.Start()
	}
	results, err := runner.RunAll(ctx, filters, parallel)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	writeText(cmd.OutOrStdout(), results)
	return nil
}

// applyFlagOverrides lets explicit flags win over the environment.
func applyFlagOverrides(cfg *config.Config) {
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
}

// buildFilters resolves aliases and returns the target filter before the
// disease filter.
func buildFilters(target, disease string) ([]association.Filter, error) {
	aliases := &config.AliasConfig{}
	if dir, err := config.Dir(); err == nil {
		loaded, err := config.LoadAliases(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read aliases: %w", err)
		}
		aliases = loaded
	}

	var filters []association.Filter
	if target != "" {
		filters = append(filters, association.Filter{Kind: association.KindTarget, ID: aliases.Resolve(target)})
	}
	if disease != "" {
		filters = append(filters, association.Filter{Kind: association.KindDisease, ID: aliases.Resolve(disease)})
	}

	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	return filters, nil
}

func writeJSON(w io.Writer, results []*analyzer.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func writeText(w io.Writer, results []*analyzer.Result) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprint(w, output.RenderHeader(res))
		if res.Empty() {
			fmt.Fprint(w, output.RenderEmptyWarning(res))
			continue
		}

		fmt.Fprint(w, output.RenderPairsTable(res.Pairs))
		fmt.Fprintln(w)
		fmt.Fprint(w, output.RenderSummary(res))
	}
}
