// Package render draws the weekly board as a PNG through headless Chromium.
//
// The board page is generated from an HTML template, served on an ephemeral
// loopback listener, and captured with chromedp. The page layout mirrors the
// community poster: the service column, the candle lighting and Shabbat end
// anchor rows, weekday services in green, and the annotation block (molad,
// Rosh Chodesh, Birkat HaLevana, tekufa) at the bottom.
package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pilou73/horaires-shabbat/internal/hebrew"
	"github.com/pilou73/horaires-shabbat/internal/week"
)

const boardDateLayout = "02/01/2006"

type boardRow struct {
	Label string
	Time  string
	Class string
}

type boardNote struct {
	Text  string
	Class string
}

type boardData struct {
	ParashaHebrew string
	Parasha       string
	DateRange     string
	Mevarchim     bool
	Rows          []boardRow
	Notes         []boardNote
}

// boardView flattens a built week into the template model.
func boardView(wk *week.Week) boardData {
	d := boardData{
		ParashaHebrew: wk.ParashaHebrew,
		Parasha:       wk.Parasha,
		DateRange: wk.CandleDate.Format(boardDateLayout) + " · " +
			wk.ShabbatDate.Format(boardDateLayout),
		Mevarchim: wk.Mevarchim,
	}

	for _, row := range wk.BoardRows() {
		class := ""
		switch row.Kind {
		case week.RowAnchor:
			class = "accent"
		case week.RowWeekday:
			class = "weekday"
		}
		d.Rows = append(d.Rows, boardRow{Label: row.Label, Time: row.Time, Class: class})
	}

	if wk.Mevarchim {
		if s := wk.MoladAnnouncement(); s != "" {
			d.Notes = append(d.Notes, boardNote{Text: s, Class: "molad"})
		}
		for _, line := range wk.RoshChodeshAnnouncements() {
			d.Notes = append(d.Notes, boardNote{Text: line, Class: "molad"})
		}
	} else if wk.Birkat != nil {
		class := "birkat"
		if wk.Birkat.Classify(wk.CandleDate) == hebrew.BirkatAfter {
			class = "birkat-ended"
		}
		for _, line := range wk.BirkatAnnouncements() {
			d.Notes = append(d.Notes, boardNote{Text: line, Class: class})
		}
	}
	if s := wk.TekufaAnnouncement(); s != "" {
		d.Notes = append(d.Notes, boardNote{Text: s, Class: "tekufa"})
	}

	return d
}

var boardTmpl = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Horaires de Chabbat</title>
<style>
  body { margin: 0; font-family: Georgia, serif; background: #fdf8ee; }
  .board { width: 720px; margin: 0 auto; padding: 40px 30px; }
  h1 { text-align: center; font-size: 26px; margin: 0 0 4px; }
  .parasha { text-align: center; color: blue; font-size: 34px; font-weight: bold; margin: 0; direction: rtl; }
  .dates { text-align: center; color: #555; margin: 6px 0 18px; }
  .badge { text-align: center; color: blue; font-size: 22px; direction: rtl; margin: 0 0 12px; }
  table { width: 100%; border-collapse: collapse; font-size: 20px; }
  td { padding: 7px 4px; border-bottom: 1px solid #e4dcc8; }
  td.time { text-align: right; font-variant-numeric: tabular-nums; width: 90px; }
  tr.accent td { font-weight: bold; }
  tr.weekday td { color: green; }
  .notes { margin-top: 24px; font-size: 19px; direction: rtl; text-align: right; }
  .notes p { margin: 6px 0; }
  .molad, .tekufa { color: blue; }
  .birkat { color: purple; }
  .birkat-ended { color: red; }
</style>
</head>
<body data-ready="true">
<main class="board">
  <h1>Horaires de Chabbat</h1>
  <p class="parasha">{{.ParashaHebrew}}</p>
  <p class="dates">{{.Parasha}} · {{.DateRange}}</p>
  {{if .Mevarchim}}<p class="badge">שבת מברכים</p>{{end}}
  <table>
  {{range .Rows}}
    <tr{{with .Class}} class="{{.}}"{{end}}><td>{{.Label}}</td><td class="time">{{.Time}}</td></tr>
  {{end}}
  </table>
  {{if .Notes}}
  <section class="notes">
  {{range .Notes}}
    <p class="{{.Class}}">{{.Text}}</p>
  {{end}}
  </section>
  {{end}}
</main>
</body>
</html>
`))

// WriteBoardHTML renders the board page for one built week.
func WriteBoardHTML(w io.Writer, wk *week.Week) error {
	if err := boardTmpl.Execute(w, boardView(wk)); err != nil {
		return fmt.Errorf("render: execute board template: %w", err)
	}
	return nil
}
