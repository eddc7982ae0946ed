package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ramanasai/sereni/internal/mood"
	"github.com/ramanasai/sereni/internal/utils"
)

var moodsFormat string

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the moods of the affect grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := utils.ParseFormat(moodsFormat)
		if err != nil {
			return err
		}
		rc := utils.DefaultRenderConfig()
		rc.Format = format
		return utils.NewRenderer(cmd.OutOrStdout(), rc).RenderMoods(mood.MustCatalogue().Entries())
	},
}

func init() {
	moodsCmd.Flags().StringVarP(&moodsFormat, "format", "f", "default", "output format: default, table, json, csv")
}
