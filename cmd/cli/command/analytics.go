package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Reading statistics and streaks",
}

var analyticsUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Your reading activity over a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetInt("period")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		stats, err := httpClient.UserAnalytics(period)
		if err != nil {
			return fmt.Errorf("failed to load analytics: %w", err)
		}

		printField("Period", fmt.Sprintf("%d days", stats.PeriodDays))
		printField("Streak", fmt.Sprintf("%d days", stats.Streak))
		printField("Stories started", stats.StoriesStarted)
		printField("Stories completed", stats.StoriesCompleted)
		printField("Completion rate", percent(stats.CompletionRate))
		printField("Reading time", fmt.Sprintf("%dm", stats.TotalReadingSeconds/60))

		var peak int64
		for _, d := range stats.Daily {
			peak = max(peak, d.ReadingSeconds)
		}
		fmt.Println()
		for _, d := range stats.Daily {
			fmt.Printf("%s %-30s %dm\n", d.Date, bar(d.ReadingSeconds, peak, 30), d.ReadingSeconds/60)
		}
		return nil
	},
}

var analyticsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Your reading dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		d, err := httpClient.Dashboard()
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		printField("Streak", fmt.Sprintf("%d days", d.Streak))
		printField("Completed this month", d.CompletedThisMonth)
		printField("Minutes this month", d.ReadingMinutesThisMonth)
		if len(d.FavoriteCategories) > 0 {
			fmt.Println()
			labelColor.Println("Favorite categories")
			for _, c := range d.FavoriteCategories {
				fmt.Printf("  %-20s %d\n", c.Name, c.Stories)
			}
		}
		if len(d.RecentProgress) > 0 {
			fmt.Println()
			labelColor.Println("Recently read")
			printProgressTable(d.RecentProgress)
		}
		return nil
	},
}

var analyticsStreakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Your current reading streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		streak, err := httpClient.Streak()
		if err != nil {
			return fmt.Errorf("failed to load streak: %w", err)
		}
		if streak == 0 {
			printDim("No active streak. Read something today to start one.")
			return nil
		}
		printSuccess("%d day streak", streak)
		return nil
	},
}

var analyticsStoryCmd = &cobra.Command{
	Use:   "story [story-id]",
	Short: "Engagement figures for one story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		a, err := httpClient.StoryAnalytics(args[0])
		if err != nil {
			return fmt.Errorf("failed to load story analytics: %w", err)
		}

		printField("Readers", a.Readers)
		printField("Completed", a.Completed)
		printField("Completion rate", percent(a.CompletionRate))
		printField("Average completion", fmt.Sprintf("%.1f%%", a.AverageCompletion))
		printField("Average rating", fmt.Sprintf("%.2f (%d ratings)", a.AverageRating, a.RatingCount))
		fmt.Println()
		printDistribution(a.Distribution)
		return nil
	},
}

var analyticsSystemCmd = &cobra.Command{
	Use:   "system",
	Short: "Platform-wide figures (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetInt("period")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		s, err := httpClient.SystemAnalytics(period)
		if err != nil {
			return fmt.Errorf("failed to load system analytics: %w", err)
		}

		printField("Period", fmt.Sprintf("%d days", s.PeriodDays))
		printField("Users", s.Users)
		printField("Stories", s.Stories)
		printField("Progress records", s.ProgressRecords)
		printField("Completed", s.Completed)
		printField("Completion rate", percent(s.CompletionRate))
		printField("Ratings", s.Ratings)
		printField("Bookmarks", s.Bookmarks)
		printField("Active readers", s.ActiveReaders)
		printDim("generated %s", s.GeneratedAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	analyticsCmd.AddCommand(analyticsUserCmd, analyticsDashboardCmd, analyticsStreakCmd, analyticsStoryCmd, analyticsSystemCmd)

	analyticsUserCmd.Flags().Int("period", 30, "Window in days (1-365)")
	analyticsSystemCmd.Flags().Int("period", 30, "Window in days (1-365)")
}
