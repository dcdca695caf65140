package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyhub/cmd/cli/dto"
)

// progressCmd represents the progress command
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Manage reading progress",
	Long:  `Record and review your reading position in StoryHub stories.`,
}

// progressRecordCmd represents the progress record command
var progressRecordCmd = &cobra.Command{
	Use:   "record [story-id]",
	Short: "Record reading progress",
	Long: `Record your reading position for a story. Only the flags you pass are
sent, so earlier values are kept. Use --status COMPLETED to finish a story
and --status STARTED to reopen it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &dto.RecordProgressRequest{StoryID: args[0]}
		flags := cmd.Flags()

		if flags.Changed("paragraph") {
			v, _ := flags.GetInt("paragraph")
			req.LastParagraph = &v
		}
		if flags.Changed("total") {
			v, _ := flags.GetInt("total")
			req.TotalParagraphs = &v
		}
		if flags.Changed("percent") {
			v, _ := flags.GetFloat64("percent")
			if v < 0 || v > 100 {
				return fmt.Errorf("--percent must be between 0 and 100")
			}
			req.CompletionPercentage = &v
		}
		if flags.Changed("seconds") {
			v, _ := flags.GetInt64("seconds")
			req.ReadingTimeSeconds = &v
		}
		if flags.Changed("words") {
			v, _ := flags.GetInt64("words")
			req.WordsRead = &v
		}
		if flags.Changed("lang") {
			v, _ := flags.GetString("lang")
			req.Language = &v
		}
		if flags.Changed("status") {
			v, _ := flags.GetString("status")
			v = strings.ToUpper(v)
			if v != "STARTED" && v != "COMPLETED" {
				return fmt.Errorf("invalid status: %s (valid: STARTED, COMPLETED)", v)
			}
			req.Status = &v
		}

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		progress, err := httpClient.RecordProgress(req)
		if err != nil {
			return fmt.Errorf("failed to record progress: %w", err)
		}

		printSuccess("Progress recorded")
		printProgress(progress)
		return nil
	},
}

var progressGetCmd = &cobra.Command{
	Use:   "get [story-id]",
	Short: "Show your progress for a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		progress, err := httpClient.GetProgress(args[0])
		if err != nil {
			return fmt.Errorf("failed to get progress: %w", err)
		}
		if progress == nil {
			printDim("You have not started this story yet.")
			return nil
		}
		printProgress(progress)
		return nil
	},
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your reading progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		list, err := httpClient.ListProgress(strings.ToUpper(status))
		if err != nil {
			return fmt.Errorf("failed to list progress: %w", err)
		}
		printProgressTable(list)
		return nil
	},
}

var progressCompletedCmd = &cobra.Command{
	Use:   "completed",
	Short: "List stories you have finished",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		list, err := httpClient.ListCompleted()
		if err != nil {
			return fmt.Errorf("failed to list completed stories: %w", err)
		}
		printProgressTable(list)
		return nil
	},
}

var progressDeleteCmd = &cobra.Command{
	Use:   "delete [story-id]",
	Short: "Forget your progress for a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := httpClient.DeleteProgress(args[0]); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
		printSuccess("Progress deleted")
		return nil
	},
}

func printProgress(p *dto.ProgressResponse) {
	printField("Story", title(p.StoryTitle, p.StoryID))
	printField("Status", p.Status)
	printField("Completion", fmt.Sprintf("%.1f%%", p.CompletionPercentage))
	if p.TotalParagraphs != nil {
		printField("Paragraph", fmt.Sprintf("%d / %d", p.LastParagraph, *p.TotalParagraphs))
	} else {
		printField("Paragraph", p.LastParagraph)
	}
	printField("Reading time", fmt.Sprintf("%dm", p.ReadingTimeSeconds/60))
	printField("Words read", p.WordsRead)
	printField("Language", p.Language)
	printField("Last read", p.LastReadAt.Local().Format("2006-01-02 15:04"))
	if p.CompletedAt != nil {
		printField("Completed", p.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
}

func printProgressTable(list []dto.ProgressResponse) {
	if len(list) == 0 {
		printDim("No progress recorded.")
		return
	}
	for _, p := range list {
		fmt.Printf("%-10s %6.1f%%  %s  %s\n",
			p.Status, p.CompletionPercentage, p.LastReadAt.Local().Format("2006-01-02"), title(p.StoryTitle, p.StoryID))
	}
	printDim("%d record(s)", len(list))
}

func init() {
	progressCmd.AddCommand(progressRecordCmd, progressGetCmd, progressListCmd, progressCompletedCmd, progressDeleteCmd)

	progressRecordCmd.Flags().Int("paragraph", 0, "Last paragraph read")
	progressRecordCmd.Flags().Int("total", 0, "Total paragraphs in the story")
	progressRecordCmd.Flags().Float64("percent", 0, "Completion percentage (0-100)")
	progressRecordCmd.Flags().Int64("seconds", 0, "Total reading time in seconds")
	progressRecordCmd.Flags().Int64("words", 0, "Total words read")
	progressRecordCmd.Flags().String("lang", "", "Reading language (en, es, fr, de, it, pt)")
	progressRecordCmd.Flags().String("status", "", "STARTED or COMPLETED")

	progressListCmd.Flags().String("status", "", "Filter by STARTED or COMPLETED")
}
