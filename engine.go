package main

import (
	"encoding/json"
	"errors"
)

const boardRows = 6

var (
	errOutOfRange   = errors.New("column out of range")
	errRowCommitted = errors.New("row already committed")
	errBoardFull    = errors.New("board has no open rows")
)

// Verdict is the per-letter feedback for a committed guess.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictPresent
	VerdictAbsent
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictPresent:
		return "present"
	case VerdictAbsent:
		return "absent"
	}
	return ""
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// Cell is one tile of a board. An empty cell has no letter and verdict
// VerdictNone, which marshals as {"letter":"","state":""}.
type Cell struct {
	Letter  string  `json:"letter"`
	Verdict Verdict `json:"state"`
}

// CheckGuess scores guess against secret. Exact positional matches are
// consumed first; the remaining guess letters then consume leftover
// secret letters left to right for "present" marks, so repeated letters
// are never credited more often than they occur in the secret.
//
// Both strings must be normalized to the same length before calling.
func CheckGuess(guess, secret string) []Verdict {
	n := len(secret)
	verdicts := make([]Verdict, n)
	consumed := make([]bool, n)

	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			verdicts[i] = VerdictCorrect
			consumed[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if verdicts[i] == VerdictCorrect {
			continue
		}
		verdicts[i] = VerdictAbsent
		for j := 0; j < n; j++ {
			if !consumed[j] && secret[j] == guess[i] {
				verdicts[i] = VerdictPresent
				consumed[j] = true
				break
			}
		}
	}

	return verdicts
}

// Board is a player's six-row guess grid. Rows are filled one at a time
// at the cursor; once committed a row never changes.
type Board struct {
	rows   [boardRows][wordLength]Cell
	cursor int
}

func newBoard() *Board {
	return &Board{}
}

// Cursor returns the index of the first open row, boardRows once the
// board is exhausted.
func (b *Board) Cursor() int {
	return b.cursor
}

// OpenCell returns the cell at col in the first open row.
func (b *Board) OpenCell(col int) (Cell, error) {
	if b.cursor >= boardRows {
		return Cell{}, errBoardFull
	}
	if col < 0 || col >= wordLength {
		return Cell{}, errOutOfRange
	}
	return b.rows[b.cursor][col], nil
}

// Write places a pending letter at col in the first open row. Pending
// letters carry no verdict; CommitRow overwrites the whole row.
func (b *Board) Write(col int, letter string) error {
	if b.cursor >= boardRows {
		return errRowCommitted
	}
	if col < 0 || col >= wordLength {
		return errOutOfRange
	}
	b.rows[b.cursor][col] = Cell{Letter: letter}
	return nil
}

// CommitRow scores guess against secret, fills every cell of the cursor
// row with letter and verdict, and advances the cursor.
func (b *Board) CommitRow(guess, secret string) ([]Verdict, error) {
	if b.cursor >= boardRows {
		return nil, errBoardFull
	}
	if len(guess) != wordLength {
		return nil, errWrongLength
	}

	verdicts := CheckGuess(guess, secret)
	for i := 0; i < wordLength; i++ {
		b.rows[b.cursor][i] = Cell{Letter: string(guess[i]), Verdict: verdicts[i]}
	}
	b.cursor++

	return verdicts, nil
}

// Rows returns a copy of the grid suitable for snapshots.
func (b *Board) Rows() [][]Cell {
	rows := make([][]Cell, boardRows)
	for i := range b.rows {
		row := make([]Cell, wordLength)
		copy(row, b.rows[i][:])
		rows[i] = row
	}
	return rows
}
