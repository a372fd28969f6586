package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/myrjola/cluequest/cmd/cli/img"
	"github.com/myrjola/cluequest/cmd/cli/story"
	"github.com/spf13/cobra"
	"os"
)

func init() {
	// The .env file is optional, environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(story.Group)
	rootCmd.AddCommand(story.Generate)
	rootCmd.AddGroup(img.Group)
	rootCmd.AddCommand(img.Generate)
}

var rootCmd = &cobra.Command{
	Use:  "cluequest-cli",
	Long: `Command line utilities for ClueQuest https://github.com/myrjola/cluequest`,
	Run: func(cmd *cobra.Command, args []string) {
		// Do Stuff Here
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
