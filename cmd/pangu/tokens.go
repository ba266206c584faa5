package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/k0kubun/pp"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/tassa-yoniso-manasi-karoto/go-pangu"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [text...]",
		Short: "Show how text is classified (reads stdin when no text is given)",
		RunE:  runTokens,
	}
	cmd.Flags().String("format", "table", "output format (table|json|pp)")
	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("tokens: failed to read stdin: %w", err)
		}
		text = string(data)
	}
	tokens := pangu.Classify(text)
	out := cmd.OutOrStdout()

	switch outputFormat {
	case "table":
		return renderTokenTable(out, tokens)
	case "json":
		payload, err := json.Marshal(tokens)
		if err != nil {
			return fmt.Errorf("tokens: failed to encode: %w", err)
		}
		payload = pretty.Pretty(payload)
		if color.Enable && color.SupportColor() {
			payload = pretty.Color(payload, nil)
		}
		_, err = out.Write(payload)
		return err
	case "pp":
		_, err := pp.Fprintln(out, []pangu.Token(tokens))
		return err
	default:
		return fmt.Errorf("tokens: unsupported output format %q", outputFormat)
	}
}

// renderTokenTable prints one token per line with the text column padded to
// its display width, so CJK text lines up with Latin text.
func renderTokenTable(w io.Writer, tokens pangu.Tokens) error {
	textWidth := len("TEXT")
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = strconv.Quote(tok.Text)
		textWidth = max(textWidth, runewidth.StringWidth(quoted[i]))
	}

	if _, err := fmt.Fprintf(w, "%-5s %s %-15s %s\n", "#", runewidth.FillRight("TEXT", textWidth), "CATEGORY", "SPAN"); err != nil {
		return err
	}
	for i, tok := range tokens {
		category := fmt.Sprintf("%-15s", tok.Category)
		_, err := fmt.Fprintf(w, "%-5d %s %s %d-%d\n",
			i, runewidth.FillRight(quoted[i], textWidth), categoryColor(tok.Category).Sprint(category), tok.Start, tok.End)
		if err != nil {
			return err
		}
	}
	return nil
}

func categoryColor(c pangu.Category) color.Color {
	switch c {
	case pangu.CategoryCJK:
		return color.Red
	case pangu.CategoryLatinWord, pangu.CategoryURL:
		return color.Blue
	case pangu.CategoryDigit:
		return color.Cyan
	case pangu.CategoryCodeSpan:
		return color.Green
	case pangu.CategoryMarkdownControl:
		return color.Magenta
	}
	return color.White
}
