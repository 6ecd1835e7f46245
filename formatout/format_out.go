package formatout

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"
	"sort"

	logs "github.com/wwpdb/onedep-io/logs"
)

// maxIndent caps the recursion depth of AutoFormat.
const maxIndent = 100

// FormatOut renders nested data structures as an indented plain text
// report, for diagnostic dumps and depositor correspondence.
type FormatOut struct {
	buf bytes.Buffer
}

func New() *FormatOut {
	return &FormatOut{}
}

func (fo *FormatOut) indent(level int) string {
	if level > maxIndent {
		level = maxIndent
	}
	pad := make([]byte, level)
	for i := range pad {
		pad[i] = ' '
	}
	return string(pad)
}

// WriteLine appends one indented line.
func (fo *FormatOut) WriteLine(level int, line string) {
	fo.buf.WriteString(fo.indent(level))
	fo.buf.WriteString(line)
	fo.buf.WriteByte('\n')
}

// AutoFormat renders a value recursively: maps and slices get section
// headers, scalars render as aligned key = value lines.
func (fo *FormatOut) AutoFormat(title string, data interface{}, level int) {
	if level > maxIndent {
		return
	}
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			fo.WriteLine(level, fmt.Sprintf("%-20s = %s", title, "<nil>"))
			return
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		fo.WriteLine(level, fmt.Sprintf("CONTENTS OF DICTIONARY: %s", title))
		keys := make([]string, 0, v.Len())
		byKey := make(map[string]reflect.Value, v.Len())
		for _, k := range v.MapKeys() {
			ks := fmt.Sprint(k.Interface())
			keys = append(keys, ks)
			byKey[ks] = v.MapIndex(k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fo.AutoFormat(k, byKey[k].Interface(), level+2)
		}
	case reflect.Slice, reflect.Array:
		fo.WriteLine(level, fmt.Sprintf("CONTENTS OF LIST: %s", title))
		for i := 0; i < v.Len(); i++ {
			fo.AutoFormat(fmt.Sprintf("%s[%d]", title, i), v.Index(i).Interface(), level+2)
		}
	case reflect.Struct:
		fo.WriteLine(level, fmt.Sprintf("CONTENTS OF DICTIONARY: %s", title))
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			fo.AutoFormat(t.Field(i).Name, v.Field(i).Interface(), level+2)
		}
	default:
		fo.WriteLine(level, fmt.Sprintf("%-20s = %s", title, fmt.Sprint(data)))
	}
}

func (fo *FormatOut) String() string {
	return fo.buf.String()
}

// WriteFile writes the accumulated report to disk.
func (fo *FormatOut) WriteFile(ctx context.Context, filePath string) error {
	logs.WithContext(ctx).Debug("WriteFile - Start")
	err := os.WriteFile(filePath, fo.buf.Bytes(), 0644)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

// Clear discards the accumulated report.
func (fo *FormatOut) Clear() {
	fo.buf.Reset()
}
