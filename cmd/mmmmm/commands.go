package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/mmmmm/internal/config"
	"github.com/jask/mmmmm/internal/database"
	"github.com/jask/mmmmm/internal/ssb"
)

func newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <text>",
		Short: "Publish a post on your feed without opening the UI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := store.Append(cmd.Context(), cfg.Self(), ssb.Post(strings.Join(args, " ")), database.Now())
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			logger.Info("published", zap.String("key", string(m.Key)), zap.Int64("sequence", m.Sequence))
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d\n", m.Key, m.Sequence)
			return nil
		},
	}
}

func newFeedCmd() *cobra.Command {
	var (
		limit  int
		author string
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print recent messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			var msgs []ssb.Msg
			if author != "" {
				msgs, err = store.ByAuthor(cmd.Context(), ssb.FeedID(author))
			} else {
				msgs, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("read feed: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, m := range msgs {
				fmt.Fprintf(out, "%s  %-12s #%-4d %s\n",
					m.Timestamp.Local().Format(feedTimeFormat), m.Author.Short(), m.Sequence, m.Content.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of messages")
	cmd.Flags().StringVar(&author, "author", "", "only messages from this feed id")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the local feed id",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Self())
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
		// the file may not exist yet, so nothing is loaded
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = zap.NewNop()
			return nil
		},
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		name  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			c, err := config.Default()
			if err != nil {
				return err
			}
			if name != "" {
				c.Identity.Name = name
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := config.Save(c, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "identity name the feed id is derived from")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

const feedTimeFormat = "2006-01-02 15:04"
