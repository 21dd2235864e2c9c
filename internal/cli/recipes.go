package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/potash-labs/potash/internal/recipes"
)

func init() {
	rootCmd.AddCommand(recipesCmd)
}

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List the built-in recipes",
	Long: `List the built-in recipes in the order they run. Recipes that apply
with your configured defaults are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := resolveOptions(newOptions{})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Recipes"))
		for _, r := range recipes.Default().All() {
			mark := mutedStyle.Render(crossMark)
			if r.Applicable(sel) {
				mark = successStyle.Render(checkMark)
			}
			fmt.Fprintf(out, "  %s %s\n", mark, r.Name())
		}
		return nil
	},
}
