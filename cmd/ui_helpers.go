package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"needles/cli/internal/boutique"
	"needles/cli/internal/httperrors"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// withSpinner runs fn while an inline spinner shows text. The spinner is
// skipped when stdout is not a terminal.
func withSpinner(text string, fn func() error) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fn()
	}

	cursor.Hide()
	defer cursor.Show()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		return fn()
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				i++
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			case <-stop:
				return
			}
		}
	}()

	err = fn()
	close(stop)
	wg.Wait()
	_ = area.Stop()
	return err
}

// fail explains err to the user and returns it wrapped with action.
func (a *app) fail(err error, action string) error {
	return httperrors.FormatNetworkError(err, action, a.host())
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderRecords prints records as a table with the given columns, or as JSON
// when --json is set. Columns missing from every record are dropped.
func renderRecords(title string, records []boutique.Record, columns []string) error {
	if jsonOutput {
		return printJSON(records)
	}
	if len(records) == 0 {
		pterm.Info.Printf("No %s.\n", title)
		return nil
	}

	var cols []string
	for _, c := range columns {
		for _, r := range records {
			if _, ok := r[c]; ok {
				cols = append(cols, c)
				break
			}
		}
	}
	if len(cols) == 0 {
		cols = recordKeys(records[0])
	}

	data := pterm.TableData{cols}
	for _, r := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cell(r[c])
		}
		data = append(data, row)
	}
	pterm.DefaultSection.Println(title)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// renderRecord prints one object as key/value rows.
func renderRecord(title string, r boutique.Record) error {
	if jsonOutput {
		return printJSON(r)
	}
	data := pterm.TableData{{"field", "value"}}
	for _, k := range recordKeys(r) {
		data = append(data, []string{k, cell(r[k])})
	}
	pterm.DefaultSection.Println(title)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printResult shows the backend's message for a mutation, or fallback.
func printResult(r boutique.Record, fallback string) error {
	if jsonOutput {
		return printJSON(r)
	}
	if msg, ok := r["message"].(string); ok && msg != "" {
		pterm.Success.Println(msg)
		return nil
	}
	pterm.Success.Println(fallback)
	return nil
}

func recordKeys(r boutique.Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cell formats a JSON value for a table cell.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		s := string(b)
		if r := []rune(s); len(r) > 60 {
			s = string(r[:57]) + "..."
		}
		return s
	}
}
