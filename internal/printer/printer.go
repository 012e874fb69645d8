// Package printer writes styled, line-oriented command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/jtl/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled messages to w.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Section(title string) {
	p.Printf("%s", styles.CommandHeaderStyle.Render(title))
}

func (p *Printer) Successf(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Success, "✔", format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Primary, "•", format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Warning, "!", format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.prefixed(styles.CurrentPalette.Error, "✘", format, args...)
}

func (p *Printer) prefixed(colour lipgloss.Color, mark, format string, args ...any) {
	prefix := lipgloss.NewStyle().Foreground(colour).Bold(true).Render(mark)
	p.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}
