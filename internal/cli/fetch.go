package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/pipeline"
	"github.com/ppiankov/regulqa/internal/worker"
	"github.com/spf13/cobra"
)

var (
	fetchOnly         []string
	fetchList         string
	fetchSkipExisting bool
	fetchInsecure     bool
	fetchCABundle     string
	fetchNoCache      bool
	fetchNoRobots     bool
	fetchTimeout      time.Duration
	fetchHTTPProxy    string
	fetchHTTPSProxy   string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the T3 domain documents",
	Long: `Fetch downloads every source listed in <config>/sources_t3.yaml into
data/raw/t3_domain/downloads and records the run in manifest.json.

Each download is retried up to three times on server errors, honours
robots.txt and a per-domain rate limit, and is cached between runs.

Example:
  regulqa fetch
  regulqa fetch --only fda_swv,nasa_handbook --skip-existing
  regulqa fetch --list names.txt --insecure
  regulqa fetch --ca-bundle /etc/ssl/corp-ca.pem`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringSliceVar(&fetchOnly, "only", nil, "comma-separated source names to fetch")
	fetchCmd.Flags().StringVar(&fetchList, "list", "", "file with source names to fetch (one per line)")
	fetchCmd.Flags().BoolVar(&fetchSkipExisting, "skip-existing", false, "keep files that were already downloaded")
	addHTTPFlags(fetchCmd)
}

// addHTTPFlags registers the download flags shared by fetch and fetch-t1
func addHTTPFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&fetchInsecure, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	cmd.Flags().StringVar(&fetchCABundle, "ca-bundle", "", "PEM file of CA certificates to trust instead of the system pool")
	cmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&fetchNoRobots, "ignore-robots", false, "do not consult robots.txt")
	cmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Minute, "overall fetch timeout")
	cmd.Flags().StringVar(&fetchHTTPProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&fetchHTTPSProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// loadFetchConfig applies the download flags to the loaded config
func loadFetchConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if fetchInsecure {
		cfg.HTTP.InsecureTLS = true
	}
	if fetchCABundle != "" {
		cfg.HTTP.CABundle = fetchCABundle
	}
	if fetchNoCache {
		cfg.Cache.Enabled = false
	}
	if fetchNoRobots {
		cfg.HTTP.RespectRobots = false
	}
	if fetchHTTPProxy != "" {
		cfg.HTTP.HTTPProxy = fetchHTTPProxy
	}
	if fetchHTTPSProxy != "" {
		cfg.HTTP.HTTPSProxy = fetchHTTPSProxy
	}
	return cfg, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadFetchConfig()
	if err != nil {
		return err
	}

	only := fetchOnly
	if fetchList != "" {
		names, err := worker.ReadListFile(fetchList)
		if err != nil {
			return fmt.Errorf("read list: %w", err)
		}
		only = append(only, names...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg, logger)

	banner("RegulQA Fetch")
	field("Sources", p.T3Dir())
	if len(only) > 0 {
		field("Only", strings.Join(only, ", "))
	}
	field("Workers", cfg.Concurrency.Workers)
	field("Cache", cfg.Cache.Enabled)
	field("Robots", cfg.HTTP.RespectRobots)
	fmt.Fprintln(cmd.ErrOrStderr())

	outcomes, err := p.Fetch(ctx, only, fetchSkipExisting)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	downloaded, skipped, failed := 0, 0, 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fail("%s: %v", o.Source.Name, o.Err)
		case o.Download.Skipped:
			skipped++
			ok("%s (exists) %s", o.Source.Name, o.Download.Path)
		default:
			downloaded++
			suffix := ""
			if o.Download.Cached {
				suffix = " (cached)"
			}
			ok("%s → %s%s", o.Source.Name, o.Download.Path, suffix)
		}
	}

	banner("Fetch Complete")
	field("Total", len(outcomes))
	field("Downloaded", downloaded)
	field("Skipped", skipped)
	field("Failures", failed)
	fmt.Fprintln(cmd.ErrOrStderr())

	return nil
}
