package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2beens/diarynotes/internal/notesclient"
)

func (a *app) listCmd() *cobra.Command {
	var (
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, five per page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.session(false)
			if err := s.Load(a.ctx(cmd)); err != nil {
				return fmt.Errorf("load notes: %s", s.ErrorBanner())
			}
			s.SetSearch(search)
			s.SetPage(page)

			out, err := a.renderer.RenderPage(s.Page(), s.CurrentPage(), s.PageCount(), s.Search())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.out, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive filter on title and content")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := a.client.Get(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}
			out, err := a.renderer.RenderNote(*note)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.out, out)
			return err
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note",
		Long:  `Add a note. Pass --content - to read the content from stdin.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := a.readContent(content)
			if err != nil {
				return err
			}

			s := a.session(false)
			s.SetForm(title, body)
			note, err := s.Submit(a.ctx(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, note.ID)
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "note content, - for stdin")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note, unset flags keep the current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
				return errors.New("nothing to change, set --title and/or --content")
			}

			current, err := a.client.Get(a.ctx(cmd), args[0])
			if err != nil {
				return err
			}

			s := a.session(false)
			s.BeginEdit(*current)
			form := s.Form()
			if cmd.Flags().Changed("title") {
				form.Title = title
			}
			if cmd.Flags().Changed("content") {
				if form.Content, err = a.readContent(content); err != nil {
					return err
				}
			}
			s.SetForm(form.Title, form.Content)

			note, err := s.Submit(a.ctx(cmd))
			if err != nil {
				return err
			}
			out, err := a.renderer.RenderNote(*note)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.out, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content, - for stdin")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.session(yes).Delete(a.ctx(cmd), args[0])
			if errors.Is(err, notesclient.ErrDeleteCancelled) {
				_, err = fmt.Fprintln(a.errOut, "Cancelled.")
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.client.Health(a.ctx(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s: %s\n", a.apiURL, status)
			return err
		},
	}
}

func (a *app) readContent(flagValue string) (string, error) {
	if flagValue != "-" {
		return flagValue, nil
	}
	b, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("read content from stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}
