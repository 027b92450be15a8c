package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPromptCommand(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the instruction that would be sent to the model",
		Long: `Print the exact instruction built for the draft (or the staged diff)
without contacting any model. Useful to compare template strategies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, service, err := setup(cmd, d, false)
			if err != nil {
				return err
			}
			instruction, _, err := service.Prompt(cmd.Context(), useCaseOptions(opts))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), instruction)
			return err
		},
	}
}
