package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"journal-go/internal/journal"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Read and write journal entries",
}

var moodColors = map[journal.Mood]*color.Color{
	journal.MoodPositive: color.New(color.FgGreen),
	journal.MoodNeutral:  color.New(color.FgYellow),
	journal.MoodNegative: color.New(color.FgRed),
}

func moodText(m journal.Mood, label string) string {
	if c, ok := moodColors[m]; ok {
		return c.Sprint(label)
	}
	return label
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries grouped by week",
	RunE: func(cmd *cobra.Command, args []string) error {
		sortFlag, _ := cmd.Flags().GetString("sort")
		key := journal.DefaultSortKey
		if sortFlag != "" {
			k, err := journal.ParseSortKey(sortFlag)
			if err != nil {
				return err
			}
			key = k
		}

		a, err := newApp("ListEntries")
		if err != nil {
			return err
		}
		defer a.Close()

		svc := a.Service()
		groups, err := svc.Groups(cmd.Context(), key)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No entries yet.")
			return nil
		}

		lang := svc.Language()
		bold := color.New(color.Bold, color.Underline)
		for _, g := range groups {
			_, _ = fmt.Fprintln(color.Output, bold.Sprint(g.Label))

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 50
			for _, e := range g.Entries {
				badge := journal.TypeLabel(e.Type, lang)
				if e.HasSecondary() {
					badge += " +"
				}
				tbl.AddRow(e.ID, journal.FormatDay(e.CreatedAt, lang), e.Title, badge,
					moodText(e.StateOfMind, journal.MoodLabel(e.StateOfMind, lang)))
			}
			_, _ = fmt.Fprintln(color.Output, tbl)
			_, _ = fmt.Fprintln(color.Output)
		}
		return nil
	},
}

var entryShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ShowEntry")
		if err != nil {
			return err
		}
		defer a.Close()

		svc := a.Service()
		e, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		lang := svc.Language()
		title := color.New(color.Bold)
		faint := color.New(color.Faint)
		_, _ = fmt.Fprintln(color.Output, title.Sprint(e.Title))
		_, _ = fmt.Fprintln(color.Output, faint.Sprintf("%s · %s · ", journal.FormatDay(e.CreatedAt, lang), journal.TypeLabel(e.Type, lang))+
			moodText(e.StateOfMind, journal.MoodLabel(e.StateOfMind, lang)))
		fmt.Println()
		_, _ = fmt.Fprintln(color.Output, title.Sprint(journal.SlotLabel(e.Type, journal.SlotContent, lang)))
		fmt.Println(e.Content)
		if e.HasSecondary() {
			fmt.Println()
			_, _ = fmt.Fprintln(color.Output, title.Sprint(journal.SlotLabel(e.Type, journal.SlotSecondary, lang)))
			fmt.Println(e.Secondary())
		}
		return nil
	},
}

// contentFlag returns --content, or stdin when it is "-".
func contentFlag(cmd *cobra.Command) (string, error) {
	content, _ := cmd.Flags().GetString("content")
	if content != "-" {
		return content, nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return string(b), nil
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CreateEntry")
		if err != nil {
			return err
		}
		defer a.Close()

		svc := a.Service()
		title, _ := cmd.Flags().GetString("title")
		day, _ := cmd.Flags().GetString("date")
		mood, _ := cmd.Flags().GetString("mood")
		typ, _ := cmd.Flags().GetString("type")
		if day == "" {
			day = string(journal.NewDate(svc.Clock().Now()))
		}
		content, err := contentFlag(cmd)
		if err != nil {
			return err
		}

		sess, err := signIn(cmd.Context(), a)
		if err != nil {
			return err
		}
		e, err := svc.Create(cmd.Context(), sess, journal.FormValues{
			Title:       title,
			Content:     content,
			Date:        day,
			StateOfMind: journal.Mood(mood),
			Type:        journal.EntryType(typ),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created entry %s\n", e.ID)
		return nil
	},
}

var entryEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change an entry; only the given flags are changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("EditEntry")
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := signIn(cmd.Context(), a)
		if err != nil {
			return err
		}
		d, err := a.Service().OpenDetail(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		if err := d.BeginEdit(sess); err != nil {
			return err
		}

		draft := d.Draft()
		flags := cmd.Flags()
		if flags.Changed("title") {
			draft.Title, _ = flags.GetString("title")
		}
		if flags.Changed("content") {
			if draft.Content, err = contentFlag(cmd); err != nil {
				return err
			}
		}
		if flags.Changed("secondary") {
			draft.SecondaryContent, _ = flags.GetString("secondary")
		}
		if flags.Changed("date") {
			draft.CreatedAt, _ = flags.GetString("date")
		}
		if flags.Changed("mood") {
			mood, _ := flags.GetString("mood")
			draft.StateOfMind = journal.Mood(mood)
		}

		if err := d.SetDraft(draft); err != nil {
			return err
		}
		if err := d.Save(cmd.Context(), sess); err != nil {
			return err
		}
		fmt.Printf("Saved entry %s\n", args[0])
		return nil
	},
}

var entryReflectCmd = &cobra.Command{
	Use:   "reflect ID TEXT",
	Short: "Write the counterpart log of an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddSecondary")
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := signIn(cmd.Context(), a)
		if err != nil {
			return err
		}
		d, err := a.Service().OpenDetail(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		if err := d.BeginAddSecondary(sess); err != nil {
			return err
		}
		if err := d.SetDraft(journal.Draft{SecondaryContent: args[1]}); err != nil {
			return err
		}
		if err := d.Save(cmd.Context(), sess); err != nil {
			return err
		}
		e := d.Entry()
		fmt.Printf("Added %s to %s\n", journal.SlotLabel(e.Type, journal.SlotSecondary, a.Service().Language()), e.ID)
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp("DeleteEntry")
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := signIn(cmd.Context(), a)
		if err != nil {
			return err
		}
		d, err := a.Service().OpenDetail(cmd.Context(), args[0], nil)
		if err != nil {
			return err
		}
		if err := d.RequestDelete(sess); err != nil {
			return err
		}
		if !yes {
			ok, err := confirm(fmt.Sprintf("Delete %q?", d.Entry().Title))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Kept.")
				return d.CancelDelete()
			}
		}
		if err := d.ConfirmDelete(cmd.Context(), sess); err != nil {
			return err
		}
		fmt.Printf("Deleted entry %s\n", args[0])
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryListCmd)
	entryListCmd.Flags().StringP("sort", "s", "", "Sort order: newest, oldest or title")

	entryCmd.AddCommand(entryShowCmd)

	entryCmd.AddCommand(entryAddCmd)
	entryAddCmd.Flags().StringP("title", "t", "", "Title")
	entryAddCmd.Flags().StringP("content", "c", "", "Content, or - to read stdin")
	entryAddCmd.Flags().StringP("date", "d", "", "Date (YYYY-MM-DD), default today")
	entryAddCmd.Flags().StringP("mood", "m", string(journal.DefaultMood), "State of mind: positive, neutral or negative")
	entryAddCmd.Flags().String("type", string(journal.TypeSpontaneous), "Log type: spontaneous or reflection")

	entryCmd.AddCommand(entryEditCmd)
	entryEditCmd.Flags().StringP("title", "t", "", "Title")
	entryEditCmd.Flags().StringP("content", "c", "", "Content, or - to read stdin")
	entryEditCmd.Flags().String("secondary", "", "Counterpart log; empty removes it")
	entryEditCmd.Flags().StringP("date", "d", "", "Date (YYYY-MM-DD)")
	entryEditCmd.Flags().StringP("mood", "m", "", "State of mind: positive, neutral or negative")

	entryCmd.AddCommand(entryReflectCmd)

	entryCmd.AddCommand(entryDeleteCmd)
	entryDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
