package schedule

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for status-line display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextServiceTime    = "next-service-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full service label, e.g. "Min'ha Guedola"
	ShortName string // Compact label, e.g. "M.Gdola"
	Time      string // Formatted service time, e.g. "12:30"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// FormatOutput formats a service for display according to the chosen mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes
//
// Example: "{{.Name}} dans {{.Remaining}}" -> "Arvit dans 2h 15m"
func FormatOutput(svc Service, now time.Time, mode string, timeFormat string) string {
	d := TimeRemaining(svc, now)
	remaining := FormatRemaining(d)
	timeStr := svc.Time.Format(timeFormat)
	short := ShortLabels[svc.ID]

	// Custom template mode: any format string containing "{{" is a Go template.
	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      svc.Label,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextServiceTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", svc.Label, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", svc.Label, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", svc.Label, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", svc.Label, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
