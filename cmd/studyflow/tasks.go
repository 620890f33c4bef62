package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hqpham/studyflow/internal/model"
	"github.com/hqpham/studyflow/internal/quickadd"
)

// addCmd implements 'studyflow add'. The argument uses the quick-add
// syntax: title @subject !priority ^due +description.
func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <entry>",
		Short: "Add a task (title @subject !priority ^2024-03-15T09:00 +notes)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := quickadd.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			task := ts.Add(context.Background(), in.Title, in.DueDate, in.Description, in.Priority, in.Subject)
			fmt.Printf("✅ %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}
}

// listCmd implements 'studyflow list'.
func listCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			for _, t := range ts.Tasks() {
				if t.Completed && !all {
					continue
				}
				fmt.Println(formatTaskLine(t))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}

func formatTaskLine(t model.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %-10s %s  %s", mark, t.ID, t.Title, t.Priority)
	if t.Subject != "" {
		line += "  @" + t.Subject
	}
	if t.DueDate != nil {
		line += "  ^" + t.DueDate.Format("2006-01-02 15:04")
	}
	return line
}

// doneCmd implements 'studyflow done'.
func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if _, ok := ts.Get(args[0]); !ok {
				return fmt.Errorf("no task with id %q", args[0])
			}
			ts.ToggleComplete(context.Background(), args[0])
			task, _ := ts.Get(args[0])
			if task.Completed {
				fmt.Printf("🎉 Hoàn thành: %s\n", task.Title)
			} else {
				fmt.Printf("↩ Mở lại: %s\n", task.Title)
			}
			return nil
		},
	}
}

// editCmd implements 'studyflow edit'. Only flags that were set end up in
// the patch; --due none clears the due date.
func editCmd() *cobra.Command {
	var title, description, priority, subject, due string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("subject") {
				patch.Subject = &subject
			}
			if cmd.Flags().Changed("priority") {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("due") {
				if due == "none" {
					patch.DueDate = &time.Time{}
				} else {
					when, ok := model.ParseTime(due)
					if !ok {
						return fmt.Errorf("unparseable due date %q", due)
					}
					patch.DueDate = &when
				}
			}
			if patch.IsZero() {
				return fmt.Errorf("nothing to change")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if _, ok := ts.Get(args[0]); !ok {
				return fmt.Errorf("no task with id %q", args[0])
			}
			ts.Update(context.Background(), args[0], patch)
			task, _ := ts.Get(args[0])
			fmt.Println(formatTaskLine(task))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "desc", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority (low, medium, high)")
	cmd.Flags().StringVar(&subject, "subject", "", "new subject")
	cmd.Flags().StringVar(&due, "due", "", "new due date, or 'none' to clear")
	return cmd
}

// rmCmd implements 'studyflow rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ts, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			task, ok := ts.Get(args[0])
			if !ok {
				return fmt.Errorf("no task with id %q", args[0])
			}
			ts.Delete(context.Background(), args[0])
			fmt.Printf("🗑 Đã xóa: %s\n", task.Title)
			return nil
		},
	}
}
