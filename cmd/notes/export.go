package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/2beens/diarynotes/internal/notesclient"
)

type exportNote struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

type exportData struct {
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Source     string       `json:"source" yaml:"source"`
	Notes      []exportNote `json:"notes" yaml:"notes"`
}

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all notes as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format: %s", format)
			}

			notes, err := a.client.List(a.ctx(cmd))
			if err != nil {
				return fmt.Errorf("list notes: %w", err)
			}
			data := newExportData(a.apiURL, notes)

			w := a.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := writeExport(w, format, data); err != nil {
				return err
			}
			if output != "" {
				_, err = fmt.Fprintf(a.errOut, "exported %d notes to %s\n", len(data.Notes), output)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	return cmd
}

func newExportData(source string, notes []notesclient.Note) exportData {
	data := exportData{
		ExportedAt: time.Now().UTC(),
		Source:     source,
		Notes:      make([]exportNote, 0, len(notes)),
	}
	for _, n := range notes {
		data.Notes = append(data.Notes, exportNote{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UTC(),
			UpdatedAt: n.UpdatedAt.UTC(),
		})
	}
	return data
}

func writeExport(w io.Writer, format string, data exportData) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
