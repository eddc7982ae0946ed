package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/sereni/internal/utils"
)

var checkFormat string

// checkCmd runs the keyword matcher over a text, the way the journal does.
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Detect markers in a text (reads stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := utils.ParseFormat(checkFormat)
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(b)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to check")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		matcher, err := loadMatcher(cfg)
		if err != nil {
			return err
		}

		rc := utils.DefaultRenderConfig()
		rc.Format = format
		return utils.NewRenderer(cmd.OutOrStdout(), rc).RenderCheck(utils.NewCheckResult(matcher.Match(text)))
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "default", "output format: default, table, json, csv")
}
