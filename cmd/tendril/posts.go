package main

import (
	"fmt"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/posts"
	"github.com/aretw0/tendril/pkg/store"
	"github.com/spf13/cobra"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Fetch and print posts with their authors",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, rec := newRemoteApp()
		defer app.Close()

		// Posts and users load concurrently, as independent thunks.
		postsDone := store.Go(cmd.Context(), app, app.FetchPosts())
		usersDone := store.Go(cmd.Context(), app, app.FetchUsers())
		if err := <-postsDone; err != nil {
			return err
		}
		if err := <-usersDone; err != nil {
			return err
		}
		if err := rec.Err(); err != nil {
			return fmt.Errorf("fetch posts: %w", err)
		}

		st := app.GetState()
		return printMarkdown(cmd, tui.PostsMarkdown(tendril.AllPosts(st), tendril.AllUsers(st)))
	},
}

var postsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new post on the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p posts.NewPost
		p.Title, _ = cmd.Flags().GetString("title")
		p.Content, _ = cmd.Flags().GetString("content")
		p.User, _ = cmd.Flags().GetString("user")

		app, rec := newRemoteApp()
		defer app.Close()

		if _, err := app.Dispatch(cmd.Context(), app.AddNewPost(p)); err != nil {
			return err
		}
		if err := rec.Err(); err != nil {
			return fmt.Errorf("add post: %w", err)
		}

		for _, saved := range tendril.AllPosts(app.GetState()) {
			printf(cmd, "added post %s %q\n", saved.ID, saved.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsAddCmd)
	addPlainFlag(postsCmd)

	postsAddCmd.Flags().String("title", "", "Post title")
	postsAddCmd.Flags().String("content", "", "Post content")
	postsAddCmd.Flags().String("user", "", "Author user id")
	_ = postsAddCmd.MarkFlagRequired("title")
	_ = postsAddCmd.MarkFlagRequired("content")
}
