package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Prints a stored text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			store, err := appInstance.OpenStoreReadOnly(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := store.Close(); cerr != nil {
					appInstance.GetLogger().Warn("Failed to close store", zap.Error(cerr))
				}
			}()

			rec, err := store.Get(cmd.Context(), id)
			if errors.Is(err, scraper.ErrNotFound) {
				return fmt.Errorf("no text stored for id %d", id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n\t- %s\n", rec.ID, rec.Text, rec.Attribution)
			return nil
		},
	}
}
