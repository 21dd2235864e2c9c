package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/potash-labs/potash/internal/answers"
	"github.com/potash-labs/potash/internal/branding"
	"github.com/potash-labs/potash/internal/config"
)

var (
	checkToolchain bool
	checkConfig    bool
	checkAnswers   string
)

// toolchain lists the binaries a generated project needs.
var toolchain = []string{"ruby", "bundle", "git"}

func init() {
	doctorCmd.Flags().BoolVar(&checkToolchain, "check-toolchain", false, "Verify ruby, bundler and git are on PATH")
	doctorCmd.Flags().BoolVar(&checkConfig, "check-config", false, "Verify the user config file")
	doctorCmd.Flags().StringVar(&checkAnswers, "check-answers", "", "Validate an answers file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment generated projects need",
	Long: `Run diagnostic checks on the local toolchain and ` + branding.DisplayName() + ` configuration.

Without flags all checks except --check-answers run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		all := !checkToolchain && !checkConfig && checkAnswers == ""
		var missing int
		if all || checkToolchain {
			missing = runToolchainCheck(w, exec.LookPath)
		}
		if all || checkConfig {
			runConfigCheck(w)
		}
		if checkAnswers != "" {
			if err := runAnswersCheck(w, checkAnswers); err != nil {
				return err
			}
		}
		return toolchainError(missing)
	},
}

// toolchainError fails doctor when any toolchain binary is missing.
func toolchainError(missing int) error {
	if missing == 0 {
		return nil
	}
	return fmt.Errorf("%d required tool(s) not found on PATH", missing)
}

// runToolchainCheck reports each toolchain binary and returns how many are
// missing.
func runToolchainCheck(w io.Writer, lookPath func(string) (string, error)) int {
	fmt.Fprintln(w, "Toolchain check:")
	missing := 0
	for _, name := range toolchain {
		path, err := lookPath(name)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s not found\n", name)
			missing++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	}
	return missing
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  [INFO] No config file at %s (built-in defaults apply)\n", path)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
	for _, key := range config.Keys() {
		fmt.Fprintf(w, "         %s = %s\n", key, config.Get(key))
	}
}

func runAnswersCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Answers validation: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("reading answers file: %w", err)
	}
	result, err := answers.Validate(data)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("answers validation failed: %w", err)
	}
	if result.Valid {
		fmt.Fprintln(w, "  [ OK ] Valid answers file")
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    - %s\n", issue)
	}
	return &answers.InvalidError{Path: path, Issues: result.Issues}
}
