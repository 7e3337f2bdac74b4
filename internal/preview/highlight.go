package preview

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const terminalFormatter = "terminal256"

// Print writes script to w, with ANSI colors when color is set.
func Print(w io.Writer, script string, color bool, theme ThemePreference) error {
	if !color {
		_, err := io.WriteString(w, script)
		return err
	}
	return Highlight(w, script, theme.StyleName())
}

// Highlight writes script to w as ANSI colored shell source.
func Highlight(w io.Writer, script, styleName string) error {
	lexer := lexers.Get("bash")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get(terminalFormatter)
	if formatter == nil {
		formatter = formatters.Fallback
	}
	iterator, err := lexer.Tokenise(nil, script)
	if err != nil {
		return fmt.Errorf("tokenise script: %w", err)
	}
	if err := formatter.Format(w, style, iterator); err != nil {
		return fmt.Errorf("format script: %w", err)
	}
	return nil
}
