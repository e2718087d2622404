// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/listview/lib/tui"
)

// minimumWidth keeps deeply nested content from wrapping one word per
// row.
const minimumWidth = 10

// wrapBreakpoints are the characters ansi.Wrap may break after in
// addition to spaces.
const wrapBreakpoints = " ,.;-+|"

// codeStyle is the chroma style for fenced code blocks.
const codeStyle = "monokai"

var (
	parser     goldmark.Markdown
	parserOnce sync.Once
)

func markdownParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parser
}

// Options configures rendering.
type Options struct {
	Theme tui.Theme

	// Width is the column budget for wrapped text, including list and
	// quote indentation.
	Width int

	// Profile is the color profile of the output. termenv.Ascii
	// produces plain text, which tests rely on.
	Profile termenv.Profile
}

// Lines renders markdown as styled terminal rows. Soft line breaks
// reflow into the surrounding paragraph; fenced code keeps its lines
// and is highlighted by language. No row is wider than Width except
// code, which is never wrapped.
func Lines(input string, options Options) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	styles := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(options.Profile))
	styles.SetColorProfile(options.Profile)

	writer := &lineWriter{
		source:  source,
		options: options,
		styles:  styles,
	}
	ast.Walk(document, writer.walk)

	for len(writer.lines) > 0 && strings.TrimSpace(ansi.Strip(writer.lines[len(writer.lines)-1])) == "" {
		writer.lines = writer.lines[:len(writer.lines)-1]
	}
	return writer.lines
}

// lineWriter walks a goldmark document and accumulates output rows.
// Inline content collects in inline until its block closes, then is
// wrapped as a unit.
type lineWriter struct {
	source  []byte
	options Options
	styles  *lipgloss.Renderer

	lines  []string
	inline strings.Builder

	// prefixes are the indentation strings of enclosing quotes and
	// list items. bullet replaces them for the next row only.
	prefixes []string
	bullet   string

	// gap requests a blank row before the next block.
	gap bool

	bold   int
	italic int
	strike int

	lists []listFrame
}

type listFrame struct {
	ordered bool
	next    int
	tight   bool
}

func (writer *lineWriter) style() lipgloss.Style {
	return writer.styles.NewStyle()
}

func (writer *lineWriter) faint(content string) string {
	return writer.style().Foreground(writer.options.Theme.FaintText).Render(content)
}

func (writer *lineWriter) prefix() string {
	return strings.Join(writer.prefixes, "")
}

func (writer *lineWriter) width() int {
	width := writer.options.Width - ansi.StringWidth(writer.prefix())
	if width < minimumWidth {
		width = minimumWidth
	}
	return width
}

func (writer *lineWriter) tight() bool {
	return len(writer.lists) > 0 && writer.lists[len(writer.lists)-1].tight
}

// emit appends block as rows under the current prefix, preceded by a
// blank row when one was requested.
func (writer *lineWriter) emit(block string) {
	if writer.gap && len(writer.lines) > 0 {
		writer.lines = append(writer.lines, strings.TrimRight(writer.prefix(), " "))
	}
	writer.gap = false

	for _, row := range strings.Split(block, "\n") {
		rowPrefix := writer.prefix()
		if writer.bullet != "" {
			rowPrefix = writer.bullet
			writer.bullet = ""
		}
		writer.lines = append(writer.lines, rowPrefix+row)
	}
}

// endBlock requests a blank row before the next block unless the
// block sits in a tight list.
func (writer *lineWriter) endBlock() {
	if !writer.tight() {
		writer.gap = true
	}
}

func (writer *lineWriter) flushInline() {
	content := writer.inline.String()
	writer.inline.Reset()
	if content == "" {
		return
	}
	writer.emit(ansi.Wrap(content, writer.width(), wrapBreakpoints))
}

func (writer *lineWriter) styledText(content string) string {
	style := writer.style().Foreground(writer.options.Theme.NormalText)
	if writer.bold > 0 {
		style = style.Bold(true)
	}
	if writer.italic > 0 {
		style = style.Italic(true)
	}
	if writer.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// renderInline collects the inline content under node without
// disturbing the enclosing block's accumulator.
func (writer *lineWriter) renderInline(node ast.Node) string {
	saved := writer.inline.String()
	writer.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, writer.walk)
	}
	result := writer.inline.String()
	writer.inline.Reset()
	writer.inline.WriteString(saved)
	return result
}

func (writer *lineWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			writer.inline.Reset()
		} else {
			writer.flushInline()
			writer.endBlock()
		}

	case ast.KindHeading:
		if entering {
			writer.inline.Reset()
		} else {
			writer.heading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			fenced := node.(*ast.FencedCodeBlock)
			writer.code(writer.blockText(node), string(fenced.Language(writer.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			writer.code(writer.blockText(node), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			writer.prefixes = append(writer.prefixes,
				writer.style().Foreground(writer.options.Theme.BorderColor).Render("│")+" ")
		} else {
			writer.prefixes = writer.prefixes[:len(writer.prefixes)-1]
			writer.gap = true
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			writer.lists = append(writer.lists, listFrame{
				ordered: list.IsOrdered(),
				next:    list.Start,
				tight:   list.IsTight,
			})
		} else {
			writer.lists = writer.lists[:len(writer.lists)-1]
			writer.endBlock()
		}

	case ast.KindListItem:
		if entering {
			writer.listItem()
		} else {
			writer.prefixes = writer.prefixes[:len(writer.prefixes)-1]
		}

	case ast.KindThematicBreak:
		if entering {
			writer.gap = true
			writer.emit(writer.style().Foreground(writer.options.Theme.BorderColor).
				Render(strings.Repeat("─", writer.width())))
			writer.gap = true
		}

	case ast.KindHTMLBlock:
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			writer.inline.WriteString(writer.styledText(string(textNode.Segment.Value(writer.source))))
			if textNode.HardLineBreak() {
				writer.inline.WriteString("\n")
			} else if textNode.SoftLineBreak() {
				writer.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			writer.inline.WriteString(writer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &writer.italic
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &writer.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case ast.KindCodeSpan:
		if entering {
			writer.inline.WriteString(writer.faint(ansi.Strip(writer.renderInline(node))))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			writer.inline.WriteString(writer.renderInline(node))
			if destination := string(link.Destination); destination != "" {
				writer.inline.WriteString(" " + writer.faint("("+destination+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			writer.inline.WriteString(writer.faint(string(node.(*ast.AutoLink).URL(writer.source))))
		}

	case ast.KindImage:
		if entering {
			writer.inline.WriteString(writer.faint("[" + ansi.Strip(writer.renderInline(node)) + "]"))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		return ast.WalkSkipChildren, nil

	case extast.KindStrikethrough:
		if entering {
			writer.strike++
		} else {
			writer.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				writer.inline.WriteString(writer.style().Foreground(writer.options.Theme.StatusInfo).Render("[x]") + " ")
			} else {
				writer.inline.WriteString(writer.styledText("[ ] "))
			}
		}

	case extast.KindTable:
		if entering {
			writer.table(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (writer *lineWriter) heading(heading *ast.Heading) {
	content := ansi.Strip(writer.inline.String())
	writer.inline.Reset()
	if content == "" {
		return
	}
	style := writer.style().Bold(true).Foreground(writer.options.Theme.NormalText)
	if heading.Level <= 2 {
		style = style.Foreground(writer.options.Theme.HeaderForeground)
	}
	writer.gap = true
	writer.emit(ansi.Wrap(style.Render(content), writer.width(), wrapBreakpoints))
	writer.gap = true
}

func (writer *lineWriter) listItem() {
	marker := "- "
	if len(writer.lists) == 0 {
		writer.prefixes = append(writer.prefixes, "")
		return
	}
	frame := &writer.lists[len(writer.lists)-1]
	if frame.ordered {
		marker = fmt.Sprintf("%d. ", frame.next)
		frame.next++
	}
	writer.bullet = writer.prefix() + marker
	writer.prefixes = append(writer.prefixes, strings.Repeat(" ", len(marker)))
}

func (writer *lineWriter) blockText(node ast.Node) string {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(writer.source))
	}
	return strings.TrimRight(code.String(), "\n")
}

// code emits a code block, highlighted when the language is known and
// the profile carries color.
func (writer *lineWriter) code(content, language string) {
	writer.gap = true
	writer.emit(writer.highlight(content, language))
	writer.endBlock()
}

func (writer *lineWriter) highlight(content, language string) string {
	formatter := chromaFormatter(writer.options.Profile)
	if language != "" && formatter != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, content, language, formatter, codeStyle); err == nil {
			return strings.TrimRight(buffer.String(), "\n")
		}
	}
	// Styled per row: lipgloss pads a multi-row block to its widest
	// row.
	rows := strings.Split(content, "\n")
	for index, row := range rows {
		rows[index] = writer.faint(row)
	}
	return strings.Join(rows, "\n")
}

// chromaFormatter names the chroma terminal formatter matching a
// color profile. Ascii has none.
func chromaFormatter(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return ""
	}
}

// table renders a GFM table with columns padded to their widest cell
// and truncated to fit the width.
func (writer *lineWriter) table(node ast.Node) {
	var rows [][]string
	header := -1
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell.Kind() == extast.KindTableCell {
				cells = append(cells, writer.renderInline(cell))
			}
		}
		if child.Kind() == extast.KindTableHeader {
			header = len(rows)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	widths := make([]int, columns)
	for _, row := range rows {
		for index, cell := range row {
			widths[index] = max(widths[index], ansi.StringWidth(cell))
		}
	}

	const separator = "  "
	var block []string
	for rowIndex, row := range rows {
		parts := make([]string, columns)
		for index := range columns {
			var cell string
			if index < len(row) {
				cell = row[index]
			}
			if rowIndex == header {
				cell = writer.style().Bold(true).Render(ansi.Strip(cell))
			}
			parts[index] = cell + strings.Repeat(" ", widths[index]-ansi.StringWidth(cell))
		}
		block = append(block, ansi.Truncate(strings.TrimRight(strings.Join(parts, separator), " "), writer.width(), "…"))
		if rowIndex == header {
			rules := make([]string, columns)
			for index, width := range widths {
				rules[index] = strings.Repeat("─", width)
			}
			block = append(block, ansi.Truncate(
				writer.style().Foreground(writer.options.Theme.BorderColor).Render(strings.Join(rules, separator)),
				writer.width(), "…"))
		}
	}
	writer.gap = true
	writer.emit(strings.Join(block, "\n"))
	writer.gap = true
}
