package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/takathon/internal/config"
	"github.com/okian/takathon/internal/domain/types"
	"github.com/okian/takathon/pkg/logger"
)

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank candidates for a team from a JSON request and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			input, _ := cmd.Flags().GetString("input")

			cfg, err := config.Load(cmd.Context(), path)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			var req types.RecommendRequest
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}
			if cmd.Flags().Changed("limit") {
				req.Limit, _ = cmd.Flags().GetInt("limit")
			}

			svc, err := newService(cfg, logger.NewNop())
			if err != nil {
				return err
			}
			resp, err := svc.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringP("input", "i", "-", "request JSON file, or - for stdin")
	cmd.Flags().IntP("limit", "n", 0, "maximum suggestions (overrides the request)")
	return cmd
}
