package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/reception-cli/internal/facts"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
	"github.com/frontdesk-ai/reception-cli/internal/provision"
)

var provisionDryRun bool

var provisionCmd = &cobra.Command{
	Use:   "provision <intake.json>",
	Short: "Provision agents for a single intake submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read intake file")
		}
		var rec intake.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return eris.Wrap(err, "parse intake file")
		}

		sub := intake.Resolve(rec, env.Defaults)
		if provisionDryRun {
			sub.DryRun = true
		}

		result, err := provisionOne(ctx, env, sub)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result")
		}
		fmt.Println(string(out))

		return nil
	},
}

// provisionOne fetches website context for a submission and runs the
// provisioning workflow.
func provisionOne(ctx context.Context, env *appEnv, sub intake.Submission) (*provision.Result, error) {
	excerpt, _ := env.Fetcher.Fetch(ctx, sub.Profile.Website)

	var siteFacts facts.WebsiteFacts
	if excerpt != "" {
		siteFacts = facts.Extract(excerpt, sub.BusinessType)
	}

	result, err := env.Workflow.Provision(ctx, provision.Request{
		Sub:     sub,
		Facts:   siteFacts,
		Excerpt: excerpt,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "provision %s", sub.Profile.BusinessName)
	}

	zap.L().Info("provisioned",
		zap.String("business", sub.Profile.BusinessName),
		zap.String("package", string(result.Package)),
		zap.Bool("dry_run", result.DryRun),
		zap.Int("agents", len(result.Agents)),
	)
	return result, nil
}

func init() {
	provisionCmd.Flags().BoolVar(&provisionDryRun, "dry-run", false, "compose prompts and create agents without purchasing phone numbers")
	rootCmd.AddCommand(provisionCmd)
}
