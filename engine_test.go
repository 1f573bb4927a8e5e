package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckGuess(t *testing.T) {
	cases := []struct {
		name   string
		guess  string
		secret string
		want   []Verdict
	}{
		{
			name:   "all correct",
			guess:  "CRANE",
			secret: "CRANE",
			want:   []Verdict{VerdictCorrect, VerdictCorrect, VerdictCorrect, VerdictCorrect, VerdictCorrect},
		},
		{
			name:   "one wrong position",
			guess:  "CRATE",
			secret: "CRANE",
			want:   []Verdict{VerdictCorrect, VerdictCorrect, VerdictCorrect, VerdictAbsent, VerdictCorrect},
		},
		{
			name:   "no overlap",
			guess:  "LIGHT",
			secret: "CRANE",
			want:   []Verdict{VerdictAbsent, VerdictAbsent, VerdictAbsent, VerdictAbsent, VerdictAbsent},
		},
		{
			name:   "repeated letters not double counted",
			guess:  "SPEED",
			secret: "ERASE",
			want:   []Verdict{VerdictPresent, VerdictAbsent, VerdictPresent, VerdictPresent, VerdictAbsent},
		},
		{
			name:   "repeated guess letters against single occurrence",
			guess:  "EEEEE",
			secret: "ERASE",
			want:   []Verdict{VerdictCorrect, VerdictAbsent, VerdictAbsent, VerdictAbsent, VerdictCorrect},
		},
		{
			name:   "leftover letters consumed left to right",
			guess:  "ERASE",
			secret: "SPEED",
			want:   []Verdict{VerdictPresent, VerdictAbsent, VerdictAbsent, VerdictPresent, VerdictPresent},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckGuess(tc.guess, tc.secret))
		})
	}
}

// For every letter appearing k times in the secret and m times in the
// guess, the combined correct+present credit must be min(k, m).
func TestCheckGuess_MultisetProperty(t *testing.T) {
	pairs := []struct{ guess, secret string }{
		{"SPEED", "ERASE"},
		{"ERASE", "SPEED"},
		{"EEEEE", "ERASE"},
		{"CRATE", "CRANE"},
		{"ABUSE", "ABOUT"},
	}

	for _, p := range pairs {
		verdicts := CheckGuess(p.guess, p.secret)

		credit := map[byte]int{}
		for i, v := range verdicts {
			if v == VerdictCorrect || v == VerdictPresent {
				credit[p.guess[i]]++
			}
		}

		for letter, got := range credit {
			inSecret := 0
			inGuess := 0
			for i := 0; i < wordLength; i++ {
				if p.secret[i] == letter {
					inSecret++
				}
				if p.guess[i] == letter {
					inGuess++
				}
			}
			want := inSecret
			if inGuess < want {
				want = inGuess
			}
			assert.LessOrEqual(t, got, want, "guess %s vs secret %s letter %c", p.guess, p.secret, letter)
		}
	}
}

func TestVerdictJSON(t *testing.T) {
	data, err := json.Marshal([]Verdict{VerdictNone, VerdictCorrect, VerdictPresent, VerdictAbsent})
	require.NoError(t, err)
	assert.JSONEq(t, `["","correct","present","absent"]`, string(data))
}

func TestCellJSON(t *testing.T) {
	data, err := json.Marshal(Cell{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"letter":"","state":""}`, string(data))

	data, err = json.Marshal(Cell{Letter: "A", Verdict: VerdictCorrect})
	require.NoError(t, err)
	assert.JSONEq(t, `{"letter":"A","state":"correct"}`, string(data))
}

func TestBoard_WriteBounds(t *testing.T) {
	b := newBoard()

	require.NoError(t, b.Write(0, "C"))
	require.NoError(t, b.Write(4, "E"))

	assert.ErrorIs(t, b.Write(5, "X"), errOutOfRange)
	assert.ErrorIs(t, b.Write(-1, "X"), errOutOfRange)

	cell, err := b.OpenCell(0)
	require.NoError(t, err)
	assert.Equal(t, Cell{Letter: "C"}, cell)
}

func TestBoard_CommitRow(t *testing.T) {
	b := newBoard()

	verdicts, err := b.CommitRow("CRATE", "CRANE")
	require.NoError(t, err)
	assert.Equal(t, []Verdict{VerdictCorrect, VerdictCorrect, VerdictCorrect, VerdictAbsent, VerdictCorrect}, verdicts)
	assert.Equal(t, 1, b.Cursor())

	rows := b.Rows()
	assert.Equal(t, Cell{Letter: "C", Verdict: VerdictCorrect}, rows[0][0])
	assert.Equal(t, Cell{Letter: "T", Verdict: VerdictAbsent}, rows[0][3])
	assert.Equal(t, Cell{}, rows[1][0])

	_, err = b.CommitRow("CAT", "CRANE")
	assert.ErrorIs(t, err, errWrongLength)
}

func TestBoard_CommittedRowsNeverChange(t *testing.T) {
	b := newBoard()

	_, err := b.CommitRow("CRATE", "CRANE")
	require.NoError(t, err)

	// writes land in the next open row, not the committed one
	require.NoError(t, b.Write(0, "Z"))
	rows := b.Rows()
	assert.Equal(t, "C", rows[0][0].Letter)
	assert.Equal(t, "Z", rows[1][0].Letter)

	// mutating the returned copy must not touch the board
	rows[0][0] = Cell{Letter: "Q"}
	assert.Equal(t, "C", b.Rows()[0][0].Letter)
}

func TestBoard_Exhaustion(t *testing.T) {
	b := newBoard()

	for i := 0; i < boardRows; i++ {
		_, err := b.CommitRow("CRATE", "CRANE")
		require.NoError(t, err)
	}
	assert.Equal(t, boardRows, b.Cursor())

	_, err := b.CommitRow("CRATE", "CRANE")
	assert.ErrorIs(t, err, errBoardFull)

	assert.ErrorIs(t, b.Write(0, "X"), errRowCommitted)

	_, err = b.OpenCell(0)
	assert.ErrorIs(t, err, errBoardFull)
}
