package week

import "github.com/pilou73/horaires-shabbat/internal/schedule"

// RowKind classifies a poster line for styling.
type RowKind int

const (
	RowService RowKind = iota
	RowAnchor
	RowWeekday
)

// BoardRow is one line of the weekly poster.
type BoardRow struct {
	ID    schedule.ServiceID // empty for anchor rows
	Label string
	Time  string
	Kind  RowKind
}

// boardOrder lists the schedule rows top to bottom. The poster is
// chronological, so the pre-sunset class precedes the afternoon class.
var boardOrder = []schedule.ServiceID{
	schedule.EveningPsalms,
	schedule.CandleMincha,
	schedule.MorningService,
	schedule.AfternoonMincha,
	schedule.ChildrenPsalms,
	schedule.WomensClass,
	schedule.PreSunsetClass,
	schedule.AfternoonClass,
	schedule.SecondMincha,
	schedule.ClosingEveningService,
}

// BoardRows flattens the week into poster lines: the service column with the
// candle lighting anchor after the psalms, the Shabbat end anchor, then the
// weekday services.
func (w *Week) BoardRows() []BoardRow {
	rows := make([]BoardRow, 0, len(boardOrder)+4)
	for _, id := range boardOrder {
		entry, _ := w.Schedule.Get(id)
		rows = append(rows, BoardRow{ID: id, Label: schedule.Labels[id], Time: entry.String()})
		if id == schedule.EveningPsalms {
			rows = append(rows, BoardRow{
				Label: "Entrée de Chabbat",
				Time:  w.Anchors.Start.String(),
				Kind:  RowAnchor,
			})
		}
	}
	rows = append(rows, BoardRow{
		Label: "Sortie de Chabbat",
		Time:  w.Anchors.End.String(),
		Kind:  RowAnchor,
	})
	for _, id := range []schedule.ServiceID{schedule.WeekdayMincha, schedule.WeekdayEveningService} {
		entry, _ := w.Schedule.Get(id)
		rows = append(rows, BoardRow{
			ID:    id,
			Label: schedule.Labels[id],
			Time:  entry.String(),
			Kind:  RowWeekday,
		})
	}
	return rows
}
