package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Bookmark stories to read later",
}

var bookmarkToggleCmd = &cobra.Command{
	Use:   "toggle [story-id]",
	Short: "Add or remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		status, err := httpClient.ToggleBookmark(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle bookmark: %w", err)
		}
		if status.IsBookmarked {
			printSuccess("Bookmarked")
		} else {
			printSuccess("Bookmark removed")
		}
		return nil
	},
}

var bookmarkStatusCmd = &cobra.Command{
	Use:   "status [story-id]",
	Short: "Check whether a story is bookmarked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		status, err := httpClient.BookmarkStatus(args[0])
		if err != nil {
			return fmt.Errorf("failed to check bookmark: %w", err)
		}
		printField("Bookmarked", status.IsBookmarked)
		return nil
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your bookmarks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := defaultLang(cmd)

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		list, err := httpClient.ListBookmarks(lang)
		if err != nil {
			return fmt.Errorf("failed to list bookmarks: %w", err)
		}
		if len(list) == 0 {
			printDim("No bookmarks yet.")
			return nil
		}
		for _, b := range list {
			fmt.Printf("%s  %s\n", b.CreatedAt.Local().Format("2006-01-02"), title(b.StoryTitle, b.StoryID))
		}
		return nil
	},
}

func init() {
	bookmarkCmd.AddCommand(bookmarkToggleCmd, bookmarkStatusCmd, bookmarkListCmd)
	bookmarkListCmd.Flags().String("lang", "", "Language for story titles")
}
