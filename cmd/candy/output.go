package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/provide-io/candy/go/candy/internal/devicestore"
	"github.com/provide-io/candy/go/candy/pkg/candy/status"
	"golang.org/x/term"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var (
	activeState = color.New(color.FgGreen, color.Bold)
	idleState   = color.New(color.FgHiBlack)
	deviceName  = color.New(color.FgWhite, color.Bold)
)

// outputFormat defaults to a table on a terminal and JSON otherwise.
func outputFormat(flag string) (string, error) {
	switch strings.ToLower(flag) {
	case formatTable, formatJSON:
		return strings.ToLower(flag), nil
	case "":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", flag)
	}
}

func stateText(s status.Status) string {
	if s.Active() {
		return activeState.Sprint(s.State().Label)
	}
	return idleState.Sprint(s.State().Label)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(v)
	}
}

func printStatus(w io.Writer, format, name string, s status.Status) error {
	if format == formatJSON {
		doc := status.AttributeMap(s)
		doc["name"] = name
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Fprintf(w, "%s  %s (%s)  %s\n", deviceName.Sprint(name), s.Kind().Name, s.Kind().Area, stateText(s))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Attribute", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, a := range s.Attributes() {
		table.Append([]string{a.Name, formatValue(a.Value)})
	}
	table.Render()
	return nil
}

func printStatusLine(w io.Writer, at time.Time, name string, s status.Status) {
	attrs := s.Attributes()
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Name, formatValue(a.Value)))
	}
	fmt.Fprintf(w, "%s %s %s %s\n", at.Format(time.TimeOnly), deviceName.Sprint(name), stateText(s), strings.Join(parts, " "))
}

func printDevices(w io.Writer, devices []devicestore.Device) {
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "IP", "Encryption", "Key", "Detected"})
	table.SetAutoWrapText(false)
	for _, d := range devices {
		detected := ""
		if !d.DetectedAt.IsZero() {
			detected = d.DetectedAt.Local().Format(time.DateTime)
		}
		table.Append([]string{d.Name, d.IP, d.Encryption, d.Key, detected})
	}
	table.Render()
}
