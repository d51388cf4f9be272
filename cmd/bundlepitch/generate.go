package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bundlepitch/internal/copygen"
	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/utils"
)

func generateCmd() *cobra.Command {
	var (
		tone      string
		listTones bool
	)

	cmd := &cobra.Command{
		Use:   "generate [request.json]",
		Short: "Generate copy for a bundle without running the server",
		Long: `Read a generate-copy request body and print the generated copy as JSON.

The request is read from the given file, or from stdin when no file or "-"
is given. It has the same shape as POST /api/generate-copy:

  {"bundle_name": "Spa Night", "tone": "luxury",
   "items": [{"title": "Candle"}, {"title": "Soap", "description": "hand-milled"}]}

Examples:
  bundlepitch generate request.json
  echo '{"bundle_name":"Kit","tone":"warm","items":[{"title":"Mug"}]}' | bundlepitch generate
  bundlepitch generate request.json --tone minimal
  bundlepitch generate --list-tones`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := copygen.New()
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			out.SetEscapeHTML(false)

			if listTones {
				return out.Encode(gen.Tones())
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open request: %w", err)
				}
				defer utils.Close(f)
				in = f
			}

			req, err := readRequest(in)
			if err != nil {
				return err
			}
			if tone != "" {
				req.Tone = tone
			}

			items, err := req.Validate()
			if err != nil {
				return err
			}
			t, _ := domain.ParseTone(req.Tone)
			return out.Encode(gen.Generate(strings.TrimSpace(req.BundleName), t.Resolve(), items))
		},
	}

	cmd.Flags().StringVarP(&tone, "tone", "t", "", "override the tone of the request")
	cmd.Flags().BoolVar(&listTones, "list-tones", false, "print the available tones and exit")
	return cmd
}

func readRequest(r io.Reader) (domain.BundleRequest, error) {
	var req domain.BundleRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}
