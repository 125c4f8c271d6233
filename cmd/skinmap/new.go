package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const themeSkeleton = `# Overrides for the %s theme. Each key maps to the path loaded instead of
# the default resource. {root} and {theme} are substituted at load time.
"*":
  # templates/navbar.html: "{root}/js/themes/{theme}/templates/navbar.html"
`

var newCmd = &cobra.Command{
	Use:   "new <theme>",
	Short: "Create a theme in the themes directory",
	Long: `Create a theme directory with an empty theme.yaml to start from.

An existing theme.yaml is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	dir, err := newLoader().CreateThemeDir(args[0])
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "theme.yaml")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, themeSkeleton, args[0]); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
