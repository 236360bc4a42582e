package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Output — форматирование вывода wildfire-cli: таблицы для человека,
// JSON для скриптов. Данные идут в stdout, сообщения — в stderr,
// чтобы вывод можно было пайпить.
type Output struct {
	json bool
	w    io.Writer
	errW io.Writer
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return &Output{
		json: jsonMode,
		w:    os.Stdout,
		errW: os.Stderr,
	}
}

// Print выводит данные: таблицу через tabwriter или jsonData в JSON
// в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.json {
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		enc.Encode(jsonData)
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}
