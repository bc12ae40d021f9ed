package codegen

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Diagnostics is the notice/warning sink for the "ignored with a
// diagnostic" Annotation-node case and for any skipped-construct warning
// the emitter prints just before it aborts (spec §4.3.2, §7). It wraps
// zerolog the way cloudflared wires zerolog for its own CLI logs
// (SPEC_FULL.md §2), with fatih/color used only to emphasize the level
// prefix when stderr is a terminal -- the normal case is a pipe back to
// the schema compiler, so color must never leak into that path.
type Diagnostics struct {
	log zerolog.Logger
}

// NewDiagnostics builds the diagnostic sink Run expects, writing to w
// (the driver passes its stderr).
func NewDiagnostics(w io.Writer) *Diagnostics {
	warn := color.New(color.FgYellow, color.Bold)
	fatal := color.New(color.FgRed, color.Bold)
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		warn.DisableColor()
		fatal.DisableColor()
	}
	zerolog.LevelFieldName = "level"
	console := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: ""}
	console.FormatLevel = func(i interface{}) string {
		switch i {
		case "warn":
			return warn.Sprint("WARN")
		case "error":
			return fatal.Sprint("FATAL")
		default:
			return "INFO"
		}
	}
	console.PartsOrder = []string{zerolog.LevelFieldName, zerolog.MessageFieldName}
	return &Diagnostics{log: zerolog.New(console)}
}

// annotationIgnored is the diagnostic spec §4.3.2 calls for: an
// Annotation node produces no emitted code, only this notice.
func (d *Diagnostics) annotationIgnored(displayName string) {
	d.log.Warn().Str("node", displayName).Msg("annotation node ignored")
}

func (d *Diagnostics) unsupported(what, where string) {
	d.log.Error().Str("where", where).Msg("unsupported construct: " + what)
}
