package report

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

func init() {
	// Disable styling if we are not in a standard terminal, as control sequences would not work.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableStyling()
	}
}

var (
	// SectionStyle is the style of section headings in the text report.
	SectionStyle = pterm.NewStyle(pterm.FgMagenta, pterm.Bold)
	// DataStyle is the style of the key figures in the text report.
	DataStyle = pterm.NewStyle(pterm.FgLightYellow, pterm.Bold)
)

// Printer writes operator-facing status lines: informational notes,
// warnings such as the default-network notice, and errors.
type Printer struct {
	Info    *pterm.PrefixPrinter
	Warning *pterm.PrefixPrinter
	Error   *pterm.PrefixPrinter
}

// NewPrinterWithWriters returns a printer writing informational lines to
// out and warnings and errors to diag.
func NewPrinterWithWriters(out, diag io.Writer) *Printer {
	p := newPrinter()
	p.Info.Writer = out
	p.Warning.Writer = diag
	p.Error.Writer = diag
	return p
}

// NewFakePrinter returns a new printer to be used in tests.
func NewFakePrinter(writer io.Writer) *Printer {
	return NewPrinterWithWriters(writer, writer)
}

func newPrinter() *Printer {
	generic := &pterm.PrefixPrinter{MessageStyle: pterm.NewStyle(pterm.FgDefault)}

	return &Printer{
		Info: generic.WithPrefix(pterm.Prefix{
			Text:  "INFO",
			Style: pterm.NewStyle(pterm.FgDarkGray),
		}),
		Warning: generic.WithPrefix(pterm.Prefix{
			Text:  "WARN",
			Style: pterm.NewStyle(pterm.FgYellow),
		}),
		Error: generic.WithPrefix(pterm.Prefix{
			Text:  "ERRO",
			Style: pterm.NewStyle(pterm.FgRed),
		}),
	}
}

// Warnf prints a formatted warning line.
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.Warning.Printfln(strings.TrimRight(format, "\n"), args...)
}

// Errorf prints a formatted error line.
func (p *Printer) Errorf(format string, args ...interface{}) {
	p.Error.Printfln(strings.TrimRight(format, "\n"), args...)
}

// Infof prints a formatted informational line.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.Info.Printfln(strings.TrimRight(format, "\n"), args...)
}
