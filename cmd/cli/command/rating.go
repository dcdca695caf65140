package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storyhub/cmd/cli/dto"
)

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Rating management commands",
	Long:  `Manage story ratings: create/update, view, delete, and list ratings`,
}

var rateCmd = &cobra.Command{
	Use:   "rate [story-id] [rating]",
	Short: "Rate a story (1-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
		if rating < 1 || rating > 5 {
			return fmt.Errorf("rating must be between 1 and 5")
		}

		req := &dto.SubmitRatingRequest{Rating: rating}
		if cmd.Flags().Changed("comment") {
			comment, _ := cmd.Flags().GetString("comment")
			req.Comment = &comment
		}

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		result, err := httpClient.SubmitRating(args[0], req)
		if err != nil {
			return fmt.Errorf("failed to rate story: %w", err)
		}

		printSuccess("Rating submitted")
		printField("Your rating", stars(result.Rating.Rating))
		printAggregate(result.Aggregate)
		return nil
	},
}

var getRatingCmd = &cobra.Command{
	Use:   "get [story-id]",
	Short: "Get your rating for a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		rating, err := httpClient.GetRating(args[0])
		if err != nil {
			return fmt.Errorf("failed to get rating: %w", err)
		}
		if rating == nil {
			printDim("You have not rated this story yet.")
			return nil
		}

		printField("Your rating", stars(rating.Rating))
		if rating.Comment != nil {
			printField("Comment", *rating.Comment)
		}
		printField("Updated", rating.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

var deleteRatingCmd = &cobra.Command{
	Use:   "delete [story-id]",
	Short: "Delete your rating for a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		agg, err := httpClient.DeleteRating(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete rating: %w", err)
		}

		printSuccess("Rating deleted")
		printAggregate(*agg)
		return nil
	},
}

var listRatingsCmd = &cobra.Command{
	Use:   "list [story-id]",
	Short: "List ratings for a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		result, err := httpClient.ListRatings(args[0], sort, page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list ratings: %w", err)
		}

		printDistribution(result.Distribution)
		fmt.Println()
		if len(result.Ratings) == 0 {
			printDim("No ratings on this page.")
		}
		for _, r := range result.Ratings {
			who := r.Username
			if who == "" {
				who = r.UserID
			}
			fmt.Printf("%s  %-20s %s\n", stars(r.Rating), who, r.CreatedAt.Local().Format("2006-01-02"))
			if r.Comment != nil && *r.Comment != "" {
				printDim("    %s", *r.Comment)
			}
		}
		printDim("page %d of %d (%d ratings)", result.Page, result.TotalPages, result.Total)
		return nil
	},
}

func printAggregate(agg dto.AggregateResponse) {
	printField("Average", fmt.Sprintf("%.2f", agg.AverageRating))
	printField("Ratings", agg.RatingCount)
}

func printDistribution(dist map[string]int64) {
	var total int64
	for _, n := range dist {
		total += n
	}
	for star := 5; star >= 1; star-- {
		n := dist[strconv.Itoa(star)]
		fmt.Printf("%d★ %-20s %d\n", star, bar(n, total, 20), n)
	}
}

func init() {
	ratingCmd.AddCommand(rateCmd, getRatingCmd, deleteRatingCmd, listRatingsCmd)

	rateCmd.Flags().StringP("comment", "c", "", "Optional review text (max 2000 characters)")

	listRatingsCmd.Flags().String("sort", "newest", "Sort order: newest, oldest, highest, lowest")
	listRatingsCmd.Flags().Int("page", 1, "Page number")
	listRatingsCmd.Flags().Int("page-size", 20, "Ratings per page (max 100)")
}
