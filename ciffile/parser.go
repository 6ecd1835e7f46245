package ciffile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
)

// tokenizer splits mmCIF input into tokens, handling comments, quoted
// values and semicolon delimited multiline text.
type tokenizer struct {
	scanner *bufio.Scanner
	pending []string
	lineNo  int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &tokenizer{scanner: sc}
}

// next returns the next token, io.EOF at end of input.
func (tk *tokenizer) next() (string, error) {
	for len(tk.pending) == 0 {
		if !tk.scanner.Scan() {
			if err := tk.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		tk.lineNo++
		line := tk.scanner.Text()
		if strings.HasPrefix(line, ";") {
			text, err := tk.readSemicolonText(line[1:])
			if err != nil {
				return "", err
			}
			tk.pending = append(tk.pending, text)
			continue
		}
		tokens, err := tk.splitLine(line)
		if err != nil {
			return "", err
		}
		tk.pending = append(tk.pending, tokens...)
	}
	tok := tk.pending[0]
	tk.pending = tk.pending[1:]
	return tok, nil
}

func (tk *tokenizer) readSemicolonText(first string) (string, error) {
	var lines []string
	if first != "" {
		lines = append(lines, first)
	}
	for tk.scanner.Scan() {
		tk.lineNo++
		line := tk.scanner.Text()
		if strings.HasPrefix(line, ";") {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
	if err := tk.scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("unterminated text field at line %d", tk.lineNo)
}

func (tk *tokenizer) splitLine(line string) ([]string, error) {
	var tokens []string
	i := 0
	n := len(line)
	for i < n {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '#':
			return tokens, nil
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < n {
				if line[j] == quote && (j+1 >= n || line[j+1] == ' ' || line[j+1] == '\t') {
					break
				}
				j++
			}
			if j >= n {
				return nil, fmt.Errorf("unterminated quoted value at line %d", tk.lineNo)
			}
			tokens = append(tokens, line[i+1:j])
			i = j + 1
		default:
			j := i
			for j < n && line[j] != ' ' && line[j] != '\t' {
				j++
			}
			tokens = append(tokens, line[i:j])
			i = j
		}
	}
	return tokens, nil
}

// Parse reads mmCIF syntax into a CifFile.
func Parse(ctx context.Context, r io.Reader) (*CifFile, error) {
	cf := NewCifFile()
	tk := newTokenizer(r)
	var blk *DataBlock

	tok, err := tk.next()
	for err == nil {
		switch {
		case strings.HasPrefix(tok, "data_"):
			blk = cf.AddBlock(tok[len("data_"):])
			tok, err = tk.next()
		case tok == "loop_":
			if blk == nil {
				err = errors.New("loop_ before any data block")
			} else {
				tok, err = parseLoop(tk, blk)
			}
		case strings.HasPrefix(tok, "_"):
			if blk == nil {
				err = errors.New("item before any data block")
			} else {
				var value string
				value, err = tk.next()
				if err == io.EOF {
					err = errors.New(fmt.Sprint("missing value for item ", tok))
				}
				if err == nil {
					setItem(blk, tok, value)
					tok, err = tk.next()
				}
			}
		case strings.HasPrefix(tok, "save_") || tok == "stop_" || tok == "global_":
			// Dictionary constructs are not used in data files.
			tok, err = tk.next()
		default:
			err = fmt.Errorf("unexpected token %q at line %d", tok, tk.lineNo)
		}
	}
	if err != io.EOF {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return cf, nil
}

// parseLoop consumes a loop_ construct and returns the first token
// following it.
func parseLoop(tk *tokenizer, blk *DataBlock) (string, error) {
	var categoryName string
	var attributes []string
	tok, err := tk.next()
	for err == nil && strings.HasPrefix(tok, "_") {
		cat, attr, splitErr := splitItemName(tok)
		if splitErr != nil {
			return "", splitErr
		}
		if categoryName == "" {
			categoryName = cat
		} else if cat != categoryName {
			return "", errors.New(fmt.Sprint("mixed categories in loop: ", categoryName, " and ", cat))
		}
		attributes = append(attributes, attr)
		tok, err = tk.next()
	}
	if err != nil && err != io.EOF {
		return "", err
	}
	if categoryName == "" {
		return "", errors.New("loop_ without item names")
	}
	cat := &Category{Name: categoryName, Attributes: attributes}
	blk.addCategory(cat)

	var row []string
	for err == nil && !isKeyword(tok) {
		row = append(row, tok)
		if len(row) == len(attributes) {
			cat.Rows = append(cat.Rows, row)
			row = nil
		}
		tok, err = tk.next()
	}
	if len(row) != 0 {
		return "", errors.New(fmt.Sprint("incomplete loop row in category ", categoryName))
	}
	if err != nil {
		return "", err
	}
	return tok, nil
}

func isKeyword(tok string) bool {
	return strings.HasPrefix(tok, "_") || strings.HasPrefix(tok, "data_") ||
		strings.HasPrefix(tok, "save_") || tok == "loop_" || tok == "stop_" || tok == "global_"
}

func splitItemName(item string) (string, string, error) {
	trimmed := strings.TrimPrefix(item, "_")
	idx := strings.Index(trimmed, ".")
	if idx <= 0 || idx == len(trimmed)-1 {
		return "", "", errors.New(fmt.Sprint("malformed item name ", item))
	}
	return trimmed[:idx], trimmed[idx+1:], nil
}

// setItem records one key-value item, appending the attribute to the
// category's single row.
func setItem(blk *DataBlock, item string, value string) {
	cat, attr, err := splitItemName(item)
	if err != nil {
		return
	}
	existing, ok := blk.Category(cat)
	if !ok {
		existing = &Category{Name: cat}
		blk.addCategory(existing)
	}
	existing.Attributes = append(existing.Attributes, attr)
	if len(existing.Rows) == 0 {
		existing.Rows = append(existing.Rows, []string{})
	}
	existing.Rows[0] = append(existing.Rows[0], value)
}
