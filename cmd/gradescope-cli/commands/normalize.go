package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var normalizeEcho bool

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeEcho, "echo", false, "fall back to the input token when the units connect but no mapping matches")
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <token> <src-unit> <dst-unit>",
	Short: "Convert a token between configured unit vocabularies.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		set, err := newNormalizationSet(config)
		if err != nil {
			return err
		}

		word, src, dst := args[0], args[1], args[2]

		var out string
		var ok bool
		if normalizeEcho {
			out, ok = set.NormalizeOrEcho(word, src, dst)
		} else {
			out, ok = set.Normalize(word, src, dst)
		}
		if !ok {
			return fmt.Errorf("no conversion from %q (%s -> %s)", word, src, dst)
		}

		fmt.Println(out)
		return nil
	},
}
