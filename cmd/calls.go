package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/frontdesk-ai/reception-cli/internal/calllog"
)

var (
	callsBusiness string
	callsLimit    int
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List logged calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate call log store")
		}

		records, err := store.List(ctx, calllog.Filter{
			Business: callsBusiness,
			Limit:    callsLimit,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal records")
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	callsCmd.Flags().StringVar(&callsBusiness, "business", "", "filter by business name")
	callsCmd.Flags().IntVar(&callsLimit, "limit", 50, "max number of calls to list")
	rootCmd.AddCommand(callsCmd)
}
