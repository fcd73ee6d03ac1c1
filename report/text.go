package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/MatthewNewland/rcvplus/core"
)

const (
	statusWon        = "Won"
	statusEliminated = "Eliminated"
	statusNone       = "-"
	exhaustedRow     = "EXHAUSTED"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// RenderText writes the human-readable report for doc.
func RenderText(w io.Writer, doc *Document) error {
	var b strings.Builder
	if doc.Method == core.MethodWebster {
		writeApportionment(&b, doc)
	} else {
		writeRounds(&b, doc)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

func writeRounds(b *strings.Builder, doc *Document) {
	fmt.Fprintf(b, "%s ballots cast\n", humanize.Comma(int64(doc.Ballots)))
	if doc.Method == core.MethodSTV {
		fmt.Fprintf(b, "%s votes to win a seat\n", humanize.Comma(votesToWin(doc.Threshold)))
	} else {
		fmt.Fprintf(b, "%s votes to win\n", humanize.Comma(votesToWin(doc.Threshold)))
	}

	for _, r := range doc.Rounds {
		fmt.Fprintf(b, "Round %d:\n", r.Number)
		if r.Backfilled {
			fmt.Fprintf(b, "%s elected from the eliminated candidates, no ballots remain\n", r.Elected)
			continue
		}
		b.WriteString(roundTable(r, doc.Ballots).String())
		b.WriteString("\n")
		if r.Pairwise != nil {
			fmt.Fprintf(b, "%s eliminated: %s\n", r.Eliminated, pairwiseLine(r.Pairwise))
		}
		if r.Surplus > 0 {
			fmt.Fprintf(b, "%s surplus of %s transferred\n", r.Elected, formatVotes(r.Surplus))
		}
	}

	if doc.Method == core.MethodSTV {
		for i, winner := range doc.Winners {
			fmt.Fprintf(b, "Seat %d: %s wins\n", i+1, winner)
		}
		if open := doc.Seats - len(doc.Winners); open > 0 {
			fmt.Fprintf(b, "%d seat(s) left unfilled\n", open)
		}
		return
	}
	if len(doc.Winners) == 0 {
		b.WriteString("Result: no winner\n")
		return
	}
	fmt.Fprintf(b, "Result: %s wins\n", doc.Winners[0])
}

func roundTable(r RoundView, ballots int) *table.Table {
	t := newTable("Candidate", "Votes", "Percentage", "Result")
	for _, e := range r.Tally {
		status := statusNone
		switch e.Candidate {
		case r.Elected:
			status = statusWon
		case r.Eliminated:
			status = statusEliminated
		}
		t.Row(e.Candidate, formatVotes(e.Votes), percent(e.Votes, float64(ballots)), status)
	}
	if r.Exhausted > 0 {
		t.Row(exhaustedRow, humanize.Comma(int64(r.Exhausted)), percent(float64(r.Exhausted), float64(ballots)), statusNone)
	}
	return t
}

// pairwiseLine renders the head-to-head as "A 6, B 3" in the order the
// two were compared.
func pairwiseLine(p *core.Pairwise) string {
	parts := make([]string, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		parts = append(parts, fmt.Sprintf("%s %d", c, p.Votes[c]))
	}
	return strings.Join(parts, ", ")
}

func writeApportionment(b *strings.Builder, doc *Document) {
	var totalVotes int64
	totalSeats := 0
	for _, p := range doc.Parties {
		totalVotes += p.Votes
		totalSeats += p.Seats
	}

	parties := append([]PartyView{}, doc.Parties...)
	sort.SliceStable(parties, func(i, j int) bool { return parties[i].Votes > parties[j].Votes })

	fmt.Fprintf(b, "%s seats apportioned\n", humanize.Comma(int64(doc.Seats)))
	t := newTable("Party", "Votes", "Percentage", "Seats", "Seat %")
	for _, p := range parties {
		t.Row(
			p.Party,
			humanize.Comma(p.Votes),
			percent(float64(p.Votes), float64(totalVotes)),
			fmt.Sprint(p.Seats),
			percent(float64(p.Seats), float64(totalSeats)),
		)
	}
	b.WriteString(t.String())
	b.WriteString("\n")

	for _, a := range doc.Awards {
		fmt.Fprintf(b, "Seat %d: %s (quotient %s)\n", a.Seat, a.Party, humanize.CommafWithDigits(a.Quotient, 2))
	}
}

// votesToWin is the smallest whole count strictly above threshold.
func votesToWin(threshold float64) int64 {
	return int64(math.Floor(threshold)) + 1
}

func formatVotes(v float64) string {
	return humanize.CommafWithDigits(v, 4)
}

func percent(part, whole float64) string {
	if whole == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", part/whole*100)
}
