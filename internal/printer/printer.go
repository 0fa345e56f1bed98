// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/kanban/internal/core/styles"
)

type ctxKey struct{}

// Printer writes one message per line with a status glyph.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) line(glyph string, color lipgloss.Color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if glyph != "" {
		msg = lipgloss.NewStyle().Foreground(color).Render(glyph) + " " + msg
	}
	_, _ = fmt.Fprintln(p.w, msg)
}

// Printf writes a plain line.
func (p *Printer) Printf(format string, args ...any) {
	p.line("", "", format, args...)
}

// Successf writes a line marked as success.
func (p *Printer) Successf(format string, args ...any) {
	p.line("✔", styles.ColorSuccess, format, args...)
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line("●", styles.ColorSecondary, format, args...)
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line("!", styles.ColorWarning, format, args...)
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line("✘", styles.ColorError, format, args...)
}
