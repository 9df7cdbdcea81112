package lexer

import (
	"ploy/internal/diag"
	"ploy/internal/source"
)

type Options struct {
	// Reporter может быть nil, тогда ошибки молча пропускаются, но лексинг продолжается.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
