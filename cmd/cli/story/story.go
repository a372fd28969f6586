package story

import (
	"context"
	"fmt"
	"github.com/myrjola/cluequest/internal/ai"
	"github.com/myrjola/cluequest/internal/story"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"os"
)

var Group = &cobra.Group{
	ID:    "story",
	Title: "Story operations",
}

func init() {
	Generate.Flags().Int64("level", 1, "difficulty level for the generated case")
	Generate.Flags().String("base-url", "https://api.groq.com/openai/v1", "OpenAI-compatible API base URL")
	Generate.Flags().String("model", "llama3-70b-8192", "completion model")
	Generate.Flags().Bool("prompt-only", false, "print the prompt instead of calling the API")
}

var Generate = &cobra.Command{
	Use:     "gen",
	GroupID: "story",
	Short:   "Generate case",
	Long:    `Generates a detective case and prints the raw completion output. Useful for tuning the prompt.`,
	Run: func(cmd *cobra.Command, args []string) {
		level, err := cmd.Flags().GetInt64("level")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid level flag: %v\n", err)
			return
		}
		prompt := story.Prompt(level)

		if promptOnly, _ := cmd.Flags().GetBool("prompt-only"); promptOnly {
			fmt.Println(prompt)
			return
		}

		baseURL, _ := cmd.Flags().GetString("base-url")
		model, _ := cmd.Flags().GetString("model")
		client := ai.NewClient(baseURL, os.Getenv("OPENAI_API_KEY"), model)

		content, err := client.SyncCompletion(context.Background(), []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "completion error: %v\n", err)
			return
		}

		fmt.Println(content)
	},
}
