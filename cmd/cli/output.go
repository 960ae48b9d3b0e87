package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"gowoa/adapters/export"
	"gowoa/adapters/runner"
	"gowoa/app"
	"gowoa/internal/errors"
	"gowoa/internal/report"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func validOutput(output string) error {
	switch output {
	case "json", "table", "markdown", "html":
		return nil
	}
	return fmt.Errorf("unsupported --output %q (want json, table, markdown or html)", output)
}

// render writes v as JSON, or doc as a table, Markdown or an HTML page.
func render(w io.Writer, output string, v any, doc *app.Document) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "markdown":
		_, err := io.WriteString(w, doc.Markdown)
		return err
	case "html":
		page, err := export.HTMLDocument(doc.Title, doc.Markdown)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	}

	fmt.Fprintln(w, headerStyle.Render(doc.Title))
	fmt.Fprintln(w, rowsTable(doc.Rows))
	for _, warning := range doc.Warnings {
		fmt.Fprintln(w, warningStyle.Render("warning: "+warning))
	}
	return nil
}

func rowsTable(rows []report.Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(report.Header...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Strings()...)
	}
	return t.Render()
}

// describe appends the last attempt's captured output to external failures.
func describe(err error) error {
	last, ok := runner.LastOutcome(err)
	if !ok {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v [%s]", err, errors.ReasonFor(errors.GetCode(err)))
	if last.Command != "" {
		fmt.Fprintf(&b, "\ncommand: %s", last.Command)
	}
	if s := strings.TrimSpace(last.Stderr); s != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", s)
	}
	if s := strings.TrimSpace(last.Stdout); s != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", s)
	}
	return fmt.Errorf("%s", b.String())
}

func (a *cliApp) readDocument(cmd *cobra.Command, kind, in, functions string, blockSize int) (*app.Document, error) {
	k, err := app.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if in == "" || in == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(in)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", in, err)
	}

	opts := app.DocumentOptions{BlockSize: blockSize}
	if functions != "" {
		opts.Functions = strings.Split(functions, ",")
	}
	return a.Documents.Build(k, payload, opts)
}
