package ciffile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
)

// Category holds one mmCIF category: attribute names and row values in
// declaration order.
type Category struct {
	Name       string
	Attributes []string
	Rows       [][]string
}

func (cat *Category) attributeIndex(attribute string) int {
	for i, a := range cat.Attributes {
		if a == attribute {
			return i
		}
	}
	return -1
}

// DataBlock holds the categories of one data_ block in declaration
// order.
type DataBlock struct {
	Name       string
	categories map[string]*Category
	order      []string
}

func NewDataBlock(name string) *DataBlock {
	return &DataBlock{Name: name, categories: make(map[string]*Category)}
}

func (blk *DataBlock) Category(name string) (*Category, bool) {
	cat, ok := blk.categories[name]
	return cat, ok
}

func (blk *DataBlock) CategoryNames() []string {
	return append([]string(nil), blk.order...)
}

func (blk *DataBlock) addCategory(cat *Category) {
	if _, exists := blk.categories[cat.Name]; !exists {
		blk.order = append(blk.order, cat.Name)
	}
	blk.categories[cat.Name] = cat
}

// CifFile is a parsed mmCIF file with its data blocks in file order.
type CifFile struct {
	Blocks []*DataBlock
	blocks map[string]*DataBlock
}

func NewCifFile() *CifFile {
	return &CifFile{blocks: make(map[string]*DataBlock)}
}

// ReadCifFile parses an mmCIF file from disk.
func ReadCifFile(ctx context.Context, filePath string) (*CifFile, error) {
	logs.WithContext(ctx).Debug("ReadCifFile - Start")
	f, err := os.Open(filePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	defer f.Close()
	return Parse(ctx, f)
}

// FirstBlockName is the id of the first data block.
func (cf *CifFile) FirstBlockName() string {
	if len(cf.Blocks) == 0 {
		return ""
	}
	return cf.Blocks[0].Name
}

func (cf *CifFile) BlockNames() []string {
	names := make([]string, 0, len(cf.Blocks))
	for _, blk := range cf.Blocks {
		names = append(names, blk.Name)
	}
	return names
}

func (cf *CifFile) Block(name string) (*DataBlock, bool) {
	blk, ok := cf.blocks[name]
	return blk, ok
}

// AddBlock appends a new data block, returning the existing one when the
// name is already present.
func (cf *CifFile) AddBlock(name string) *DataBlock {
	if blk, ok := cf.blocks[name]; ok {
		return blk
	}
	blk := NewDataBlock(name)
	cf.Blocks = append(cf.Blocks, blk)
	cf.blocks[name] = blk
	return blk
}

// AddCategory declares a category with its attributes in a block,
// replacing any existing rows.
func (cf *CifFile) AddCategory(blockName string, categoryName string, attributes []string) *Category {
	blk := cf.AddBlock(blockName)
	cat := &Category{Name: categoryName, Attributes: append([]string(nil), attributes...)}
	blk.addCategory(cat)
	return cat
}

// InsertData appends one row to a category.
func (cf *CifFile) InsertData(blockName string, categoryName string, row []string) error {
	blk, ok := cf.blocks[blockName]
	if !ok {
		return errors.New(fmt.Sprint("unknown data block ", blockName))
	}
	cat, ok := blk.Category(categoryName)
	if !ok {
		return errors.New(fmt.Sprint("unknown category ", categoryName))
	}
	if len(row) != len(cat.Attributes) {
		return errors.New(fmt.Sprint("row length ", len(row), " does not match category ", categoryName))
	}
	cat.Rows = append(cat.Rows, append([]string(nil), row...))
	return nil
}

// CategoryValues returns the rows of a category as attribute keyed maps.
// Unknown ("?") and inapplicable (".") values are dropped.
func (cf *CifFile) CategoryValues(blockName string, categoryName string) []map[string]string {
	blk, ok := cf.blocks[blockName]
	if !ok {
		return nil
	}
	cat, ok := blk.Category(categoryName)
	if !ok {
		return nil
	}
	values := make([]map[string]string, 0, len(cat.Rows))
	for _, row := range cat.Rows {
		m := make(map[string]string)
		for i, a := range cat.Attributes {
			if i >= len(row) {
				continue
			}
			if row[i] == "?" || row[i] == "." {
				continue
			}
			m[a] = row[i]
		}
		values = append(values, m)
	}
	return values
}

// GetSingleValue returns the first row value of one attribute, empty
// when absent or placeholder.
func (cf *CifFile) GetSingleValue(blockName string, categoryName string, attribute string) string {
	values := cf.CategoryValues(blockName, categoryName)
	if len(values) == 0 {
		return ""
	}
	return values[0][attribute]
}

// UpdateSingleRowValue sets one attribute in one row of a category.
func (cf *CifFile) UpdateSingleRowValue(blockName string, categoryName string, attribute string, rowIndex int, value string) error {
	blk, ok := cf.blocks[blockName]
	if !ok {
		return errors.New(fmt.Sprint("unknown data block ", blockName))
	}
	cat, ok := blk.Category(categoryName)
	if !ok {
		return errors.New(fmt.Sprint("unknown category ", categoryName))
	}
	idx := cat.attributeIndex(attribute)
	if idx < 0 {
		return errors.New(fmt.Sprint("unknown attribute ", attribute, " in category ", categoryName))
	}
	if rowIndex < 0 || rowIndex >= len(cat.Rows) {
		return errors.New(fmt.Sprint("row index ", rowIndex, " out of range for category ", categoryName))
	}
	cat.Rows[rowIndex][idx] = value
	return nil
}

// UpdateMultipleRowsValue sets one attribute in every row of a category.
func (cf *CifFile) UpdateMultipleRowsValue(blockName string, categoryName string, attribute string, value string) error {
	blk, ok := cf.blocks[blockName]
	if !ok {
		return errors.New(fmt.Sprint("unknown data block ", blockName))
	}
	cat, ok := blk.Category(categoryName)
	if !ok {
		return errors.New(fmt.Sprint("unknown category ", categoryName))
	}
	idx := cat.attributeIndex(attribute)
	if idx < 0 {
		return errors.New(fmt.Sprint("unknown attribute ", attribute, " in category ", categoryName))
	}
	for _, row := range cat.Rows {
		row[idx] = value
	}
	return nil
}

// BlockAsDict returns every category of a block keyed by category name.
func (cf *CifFile) BlockAsDict(blockName string) map[string][]map[string]string {
	blk, ok := cf.blocks[blockName]
	if !ok {
		return nil
	}
	out := make(map[string][]map[string]string)
	for _, name := range blk.order {
		out[name] = cf.CategoryValues(blockName, name)
	}
	return out
}

// WriteFile renders the file to disk in mmCIF syntax.
func (cf *CifFile) WriteFile(ctx context.Context, filePath string) error {
	logs.WithContext(ctx).Debug("WriteFile - Start")
	f, err := os.Create(filePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	err = cf.Write(ctx, f)
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	return err
}

// Write renders the file in mmCIF syntax: key-value pairs for single-row
// categories, loop_ constructs otherwise.
func (cf *CifFile) Write(ctx context.Context, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, blk := range cf.Blocks {
		if _, err := fmt.Fprintf(bw, "data_%s\n#\n", blk.Name); err != nil {
			return err
		}
		for _, name := range blk.order {
			cat := blk.categories[name]
			if len(cat.Rows) == 0 {
				continue
			}
			if len(cat.Rows) == 1 {
				for i, a := range cat.Attributes {
					if _, err := fmt.Fprintf(bw, "_%s.%s %s\n", name, a, formatValue(cat.Rows[0][i])); err != nil {
						return err
					}
				}
			} else {
				if _, err := fmt.Fprintln(bw, "loop_"); err != nil {
					return err
				}
				for _, a := range cat.Attributes {
					if _, err := fmt.Fprintf(bw, "_%s.%s\n", name, a); err != nil {
						return err
					}
				}
				for _, row := range cat.Rows {
					fields := make([]string, len(row))
					for i, v := range row {
						fields[i] = formatValue(v)
					}
					if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
						return err
					}
				}
			}
			if _, err := fmt.Fprintln(bw, "#"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// formatValue quotes a value as mmCIF requires: semicolon text for
// multiline values, single quotes for values with spaces.
func formatValue(v string) string {
	if v == "" {
		return "?"
	}
	if strings.Contains(v, "\n") {
		return fmt.Sprint("\n;", v, "\n;")
	}
	if strings.ContainsAny(v, " \t") || strings.HasPrefix(v, "_") || strings.HasPrefix(v, "#") {
		if !strings.Contains(v, "'") {
			return fmt.Sprint("'", v, "'")
		}
		return fmt.Sprint("\"", v, "\"")
	}
	return v
}
