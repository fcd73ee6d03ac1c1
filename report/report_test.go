package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/MatthewNewland/rcvplus/core"
)

func repeat(n int, ranking ...string) core.Ballots {
	out := make(core.Ballots, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.NewBallot(ranking...))
	}
	return out
}

func join(sets ...core.Ballots) core.Ballots {
	var out core.Ballots
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// irvDocument: A 3, B 2, C 1 eliminates C, then the A/B tie at 3 eliminates
// B as the later candidate, and A wins with 5 of 6.
func irvDocument(t *testing.T) *Document {
	t.Helper()
	ballots := join(repeat(3, "A"), repeat(2, "B", "A"), repeat(1, "C", "B"))
	res, err := core.IRV(ballots, nil)
	assert.NoError(t, err)
	return FromResult(res)
}

func TestFromResult(t *testing.T) {
	doc := irvDocument(t)

	check.Equal(t, core.MethodIRV, doc.Method)
	check.Equal(t, 6, doc.Ballots)
	check.Equal(t, 3.0, doc.Threshold)
	check.Equal(t, []string{"A"}, doc.Winners)
	check.Equal(t, []string{"C", "B"}, doc.Eliminated)
	check.Equal(t, 3, len(doc.Rounds))

	first := doc.Rounds[0]
	check.Equal(t, 1, first.Number)
	check.Equal(t, []TallyEntry{{"A", 3}, {"B", 2}, {"C", 1}}, first.Tally)
	check.Equal(t, "C", first.Eliminated)
	check.Equal(t, "A", doc.Rounds[2].Elected)
}

func TestRenderText_IRV(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, RenderText(&buf, irvDocument(t)))
	out := buf.String()

	check.True(t, strings.Contains(out, "6 ballots cast"))
	check.True(t, strings.Contains(out, "4 votes to win"))
	check.True(t, strings.Contains(out, "Round 3:"))
	check.True(t, strings.Contains(out, "50.00%"))
	check.True(t, strings.Contains(out, statusEliminated))
	check.True(t, strings.Contains(out, statusWon))
	check.True(t, strings.Contains(out, "Result: A wins"))

	// the C>B ballot runs out once C and B are gone
	check.True(t, strings.Contains(out, exhaustedRow))
}

func TestRenderText_Pairwise(t *testing.T) {
	ballots := join(repeat(4, "A", "C", "B"), repeat(3, "B", "C"), repeat(2, "C", "B"))
	res, err := core.BTRIRV(ballots, nil)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, RenderText(&buf, FromResult(res)))
	out := buf.String()

	check.True(t, strings.Contains(out, "B eliminated: B 3, C 6"))
	check.True(t, strings.Contains(out, "Result: C wins"))
}

func TestRenderText_STV(t *testing.T) {
	ballots := join(repeat(9, "A", "B", "C"), repeat(5, "C", "D"), repeat(4, "D", "C"), repeat(2, "B", "A"))
	res, err := core.STV(ballots, 2, nil)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, RenderText(&buf, FromSTV(res)))
	out := buf.String()

	// quota floor(20/3) = 6
	check.True(t, strings.Contains(out, "20 ballots cast"))
	check.True(t, strings.Contains(out, "7 votes to win a seat"))
	check.True(t, strings.Contains(out, "A surplus of 3 transferred"))
	check.True(t, strings.Contains(out, "Seat 1: A wins"))
	check.True(t, strings.Contains(out, "Seat 2: C wins"))
	check.False(t, strings.Contains(out, "unfilled"))
}

func TestRenderText_Backfilled(t *testing.T) {
	doc := &Document{
		Method:  core.MethodSTV,
		Seats:   3,
		Ballots: 2,
		Winners: []string{"A", "B"},
		Rounds: []RoundView{
			{Number: 1, Tally: []TallyEntry{{"A", 2}}, Elected: "A"},
			{Number: 2, Tally: []TallyEntry{}, Elected: "B", Backfilled: true},
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, RenderText(&buf, doc))
	out := buf.String()

	check.True(t, strings.Contains(out, "B elected from the eliminated candidates"))
	check.True(t, strings.Contains(out, "Seat 2: B wins"))
	check.True(t, strings.Contains(out, "1 seat(s) left unfilled"))
}

func TestRenderText_NoWinner(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, RenderText(&buf, &Document{Method: core.MethodIRV, Winners: []string{}}))
	check.True(t, strings.Contains(buf.String(), "Result: no winner"))
}

func TestWebster_Document(t *testing.T) {
	votes := []core.PartyVotes{{Party: "A", Votes: 53000}, {Party: "B", Votes: 24000}, {Party: "C", Votes: 23000}, {Party: "D", Votes: 0}}
	a, err := core.Webster(votes, 7, nil)
	assert.NoError(t, err)

	doc := FromApportionment(a)
	check.Equal(t, 7, doc.Seats)
	check.Equal(t, []string{"A", "B", "C"}, doc.Winners)
	check.Equal(t, []PartyView{{"A", 53000, 3}, {"B", 24000, 2}, {"C", 23000, 2}, {"D", 0, 0}}, doc.Parties)
	check.Equal(t, 7, len(doc.Awards))
	check.Equal(t, AwardView{Seat: 1, Party: "A", Quotient: 53000}, doc.Awards[0])

	var buf bytes.Buffer
	assert.NoError(t, RenderText(&buf, doc))
	out := buf.String()

	check.True(t, strings.Contains(out, "7 seats apportioned"))
	check.True(t, strings.Contains(out, "53,000"))
	check.True(t, strings.Contains(out, "53.00%"))
	check.True(t, strings.Contains(out, "42.86%"))
	check.True(t, strings.Contains(out, "Seat 1: A (quotient 53,000)"))
}

func TestPercent(t *testing.T) {
	check.Equal(t, "0.00%", percent(3, 0))
	check.Equal(t, "33.33%", percent(1, 3))
	check.Equal(t, "100.00%", percent(5, 5))
}

func TestVotesToWin(t *testing.T) {
	check.Equal(t, int64(4), votesToWin(3))
	check.Equal(t, int64(7), votesToWin(6))
}

func TestEncodeJSON(t *testing.T) {
	doc := irvDocument(t)
	doc.RunID = "run-1"
	doc.Fingerprint = "abc"

	var buf bytes.Buffer
	assert.NoError(t, EncodeJSON(&buf, doc))
	check.True(t, strings.Contains(buf.String(), `"run_id": "run-1"`))

	var got Document
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(doc, &got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("json document mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeCBOR(t *testing.T) {
	ballots := join(repeat(4, "A", "C", "B"), repeat(3, "B", "C"), repeat(2, "C", "B"))
	res, err := core.BTRIRV(ballots, nil)
	assert.NoError(t, err)
	doc := FromResult(res)

	first, err := MarshalCBOR(doc)
	assert.NoError(t, err)
	second, err := MarshalCBOR(doc)
	assert.NoError(t, err)
	check.True(t, bytes.Equal(first, second))

	var buf bytes.Buffer
	assert.NoError(t, EncodeCBOR(&buf, doc))
	check.True(t, bytes.Equal(first, buf.Bytes()))

	got, err := DecodeCBOR(first)
	assert.NoError(t, err)
	if diff := cmp.Diff(doc, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("cbor document mismatch (-want +got):\n%s", diff)
	}

	_, err = DecodeCBOR([]byte{0xff})
	check.Error(t, err)
}
