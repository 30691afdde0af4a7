package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/immuclient/executor"
	"github.com/dmitrijs2005/immuclient/value"
)

// Printer writes the demo transcript.
type Printer struct {
	w io.Writer

	step   func(string, ...any) string
	ok     func(string, ...any) string
	warn   func(string, ...any) string
	header func(string, ...any) string
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		step:   color.New(color.FgCyan, color.Bold).SprintfFunc(),
		ok:     color.GreenString,
		warn:   color.YellowString,
		header: color.RGB(196, 96, 16).SprintfFunc(),
	}
}

func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintln(p.w, p.step("==> "+format, args...))
}

func (p *Printer) OK(format string, args ...any) {
	fmt.Fprintln(p.w, p.ok("    "+format, args...))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.warn("    "+format, args...))
}

// Result prints a query result as a pipe-separated table.
func (p *Printer) Result(r *executor.QueryResult) error {
	docs, err := r.Documents()
	if err != nil {
		return err
	}
	var keys []string
	if len(docs) > 0 {
		keys = columnOrder(r, docs[0])
	}
	fmt.Fprintln(p.w, "    "+p.header("%s", strings.Join(keys, " | ")))
	for _, d := range docs {
		cells := make([]string, 0, len(keys))
		for _, k := range keys {
			cells = append(cells, fmt.Sprint(d[k]))
		}
		fmt.Fprintln(p.w, "    "+strings.Join(cells, " | "))
	}
	return nil
}

// columnOrder keeps the server column order when the labels normalize to
// the document keys, and falls back to sorted keys otherwise.
func columnOrder(r *executor.QueryResult, d value.Document) []string {
	keys := make([]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		k := value.NormalizeColumn(c.Name)
		if _, ok := d[k]; !ok {
			return d.Keys()
		}
		keys = append(keys, k)
	}
	if len(keys) != len(d) {
		return d.Keys()
	}
	return keys
}

// Document prints one document with sorted keys.
func (p *Printer) Document(d value.Document) {
	parts := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		parts = append(parts, p.header("%s", k)+"="+fmt.Sprint(d[k]))
	}
	fmt.Fprintln(p.w, "    "+strings.Join(parts, " "))
}
