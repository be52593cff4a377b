package connectfour

import "github.com/rocketscienceinc/connectfour-backend/internal/entity"

const WinLength = 4

// lineDirections - one half of each line through a cell, the other half is the negation.
var lineDirections = [4][2]int{
	{1, 0},  // vertical
	{0, 1},  // horizontal
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

// Wins - reports whether mark placed at (row, col) completes a line of WinLength or more.
// Only the lines through the placed cell are examined.
func Wins(board *entity.Board, row, col int, mark entity.Mark) bool {
	if mark == entity.Empty || !inBounds(row, col) {
		return false
	}

	for _, dir := range lineDirections {
		total := 1 + countRun(board, row, col, dir[0], dir[1], mark) + countRun(board, row, col, -dir[0], -dir[1], mark)
		if total >= WinLength {
			return true
		}
	}

	return false
}

// Drop - returns the lowest empty row of col, ok is false when the column is full.
func Drop(board *entity.Board, col int) (int, bool) {
	for row := entity.Rows - 1; row >= 0; row-- {
		if board[row][col] == entity.Empty {
			return row, true
		}
	}

	return -1, false
}

// countRun - counts consecutive cells equal to mark starting next to (row, col).
func countRun(board *entity.Board, row, col, dRow, dCol int, mark entity.Mark) int {
	count := 0

	for r, c := row+dRow, col+dCol; inBounds(r, c) && board[r][c] == mark; r, c = r+dRow, c+dCol {
		count++
	}

	return count
}

func inBounds(row, col int) bool {
	return row >= 0 && row < entity.Rows && col >= 0 && col < entity.Columns
}
