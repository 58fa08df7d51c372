package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	internalApp "github.com/haierkeys/clipbook-service/internal/app"
	"github.com/haierkeys/clipbook-service/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	noteTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	noteMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noteTagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	noteHeadStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	noteCellStyle  = lipgloss.NewStyle().Padding(0, 1)
)

const noteTimeLayout = "2006-01-02 15:04"

func init() {
	var config string

	noteCommand := &cobra.Command{
		Use:   "note",
		Short: "Read and edit notes in the local store",
	}
	noteCommand.PersistentFlags().StringVarP(&config, "config", "c", "", "config file")

	var (
		search  string
		sortKey string
		asc     bool
	)
	listCommand := &cobra.Command{
		Use:   "list [-s search] [--sort key] [--asc]",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := domain.DefaultNoteQuery()
			q.Search = search
			if sortKey != "" {
				k := domain.SortKey(sortKey)
				if !k.Valid() {
					return fmt.Errorf("unknown sort key %q", sortKey)
				}
				q.SortKey = k
			}
			if asc {
				q.SortDirection = domain.SortAsc
			}
			return withLocalApp(cmd.Context(), config, func(ctx context.Context, a *internalApp.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), renderNoteTable(a.NoteService.List(ctx, q)))
				return nil
			})
		},
	}
	listCommand.Flags().StringVarP(&search, "search", "s", "", "search text")
	listCommand.Flags().StringVar(&sortKey, "sort", "", "updatedAt | createdAt | title | contentLength")
	listCommand.Flags().BoolVar(&asc, "asc", false, "ascending order")

	showCommand := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalApp(cmd.Context(), config, func(ctx context.Context, a *internalApp.App) error {
				n, err := a.NoteService.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderNote(n))
				return nil
			})
		},
	}

	var (
		title   string
		content string
		tags    []string
	)
	newCommand := &cobra.Command{
		Use:   "new [-t title] [--content text] [--tag tag]",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalApp(cmd.Context(), config, func(ctx context.Context, a *internalApp.App) error {
				out := a.NoteService.Create(ctx)
				if out.Note == nil {
					return fmt.Errorf("note was not created")
				}
				patch := domain.NotePatch{}
				if cmd.Flags().Changed("title") {
					patch.Title = &title
				}
				if cmd.Flags().Changed("content") {
					patch.Content = &content
				}
				if len(tags) > 0 {
					patch.Tags, patch.SetTags = tags, true
				}
				if !patch.IsEmpty() {
					if updated := a.NoteService.Update(ctx, out.Note.ID, patch); updated.Note != nil {
						out = updated
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), out.Note.ID)
				return nil
			})
		},
	}
	newCommand.Flags().StringVarP(&title, "title", "t", "", "note title")
	newCommand.Flags().StringVar(&content, "content", "", "note content")
	newCommand.Flags().StringSliceVar(&tags, "tag", nil, "tag, repeatable")

	deleteCommand := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note (the welcome note is hidden instead)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalApp(cmd.Context(), config, func(ctx context.Context, a *internalApp.App) error {
				id := args[0]
				if id != domain.WelcomeNoteID {
					if _, err := a.NoteService.Get(ctx, id); err != nil {
						return err
					}
				}
				out := a.NoteService.Delete(ctx, id)
				switch {
				case !out.Changed:
					fmt.Fprintln(cmd.OutOrStdout(), "nothing changed")
				case id == domain.WelcomeNoteID:
					fmt.Fprintln(cmd.OutOrStdout(), "welcome note hidden")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
				}
				return nil
			})
		},
	}

	noteCommand.AddCommand(listCommand, showCommand, newCommand, deleteCommand)
	rootCmd.AddCommand(noteCommand)
}

// renderNoteTable 渲染笔记列表表格
func renderNoteTable(notes []domain.Note) string {
	if len(notes) == 0 {
		return noteMetaStyle.Render("no notes")
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{
			n.ID,
			truncateRunes(n.Title, 40),
			strings.Join(n.Tags, ", "),
			n.UpdatedAt.Local().Format(noteTimeLayout),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(noteMetaStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return noteHeadStyle
			}
			return noteCellStyle
		}).
		Headers("ID", "TITLE", "TAGS", "UPDATED").
		Rows(rows...)
	return t.Render()
}

// renderNote 渲染单条笔记详情
func renderNote(n *domain.Note) string {
	var b strings.Builder
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(noteTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(noteMetaStyle.Render(fmt.Sprintf("%s  created %s  updated %s  %d chars  %d versions",
		n.ID,
		n.CreatedAt.Local().Format(noteTimeLayout),
		n.UpdatedAt.Local().Format(noteTimeLayout),
		n.ContentLength(),
		len(n.History),
	)))
	if len(n.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(noteTagStyle.Render("#" + strings.Join(n.Tags, " #")))
	}
	b.WriteString("\n\n")
	b.WriteString(n.Content)
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// withLocalApp opens the store, runs fn and waits for pending saves
// withLocalApp 打开存储，执行 fn，并等待未完成的保存
func withLocalApp(ctx context.Context, config string, fn func(context.Context, *internalApp.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	a, err := openLocalApp(ctx, config)
	if err != nil {
		return err
	}
	defer closeLocalApp(a)
	return fn(ctx, a)
}
