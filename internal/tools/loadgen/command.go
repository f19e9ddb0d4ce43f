package loadgen

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/tools/common"
)

type options struct {
	baseURL     string
	token       string
	email       string
	password    string
	profile     string
	duration    time.Duration
	rps         int
	concurrency int
	seed        int64
	ci          bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "loadgen", Short: "Generate admin listing traffic"}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "admin access token (see seed token)")
	cmd.PersistentFlags().StringVar(&opts.email, "email", "", "log in with this email when no token is given")
	cmd.PersistentFlags().StringVar(&opts.password, "password", "", "password for --email")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "mixed", "traffic profile: browse|dashboard|mixed|error-heavy")
	cmd.PersistentFlags().DurationVar(&opts.duration, "duration", 15*time.Second, "traffic duration")
	cmd.PersistentFlags().IntVar(&opts.rps, "rps", 20, fmt.Sprintf("requests per second (max %d)", MaxRPS))
	cmd.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 6, "concurrent workers")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 42, "random seed")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newRunCommand(opts))
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run load generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run(opts.ci, opts.duration+15*time.Second, "loadgen", "run", func(ctx context.Context) ([]string, error) {
				return runAction(ctx, opts)
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "loadgen run", details, err)
			}
			if err != nil {
				os.Exit(4)
			}
			return nil
		},
	}
}

func runAction(ctx context.Context, opts *options) ([]string, error) {
	token := opts.token
	if token == "" && opts.email != "" {
		var err error
		if token, err = Login(ctx, opts.baseURL, opts.email, opts.password); err != nil {
			return nil, err
		}
	}
	res, err := Run(ctx, Config{
		BaseURL:     opts.baseURL,
		Token:       token,
		Profile:     opts.profile,
		Duration:    opts.duration,
		RPS:         opts.rps,
		Concurrency: opts.concurrency,
		Seed:        opts.seed,
	})
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf("total_requests=%d", res.TotalRequests),
		fmt.Sprintf("failures=%d", res.Failures),
		fmt.Sprintf("status_2xx=%d", res.Status2xx),
		fmt.Sprintf("status_4xx=%d", res.Status4xx),
		fmt.Sprintf("status_5xx=%d", res.Status5xx),
	}, nil
}
