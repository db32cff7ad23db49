package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Save an empty 4x4 layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := openStorage()
		if err != nil {
			return err
		}
		defer storage.Close(s)

		if err := s.Save(cmd.Context(), model.EmptyDocument()); err != nil {
			return fmt.Errorf("save layout: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Layout reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
