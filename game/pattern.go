// game/pattern.go
package game

import (
	"errors"
	"strings"
)

// Pattern 表示一种获胜规则
type Pattern string

const (
	PatternLine        Pattern = "line"
	PatternFullHouse   Pattern = "full-house"
	PatternFourCorners Pattern = "four-corners"
	PatternX           Pattern = "x"
)

var ErrUnknownPattern = errors.New("unknown win pattern")

func ParsePattern(s string) (Pattern, error) {
	switch Pattern(strings.ToLower(s)) {
	case PatternLine, PatternFullHouse, PatternFourCorners, PatternX:
		return Pattern(strings.ToLower(s)), nil
	default:
		return "", ErrUnknownPattern
	}
}

// Marks 从服务端叫号记录推导标记矩阵，绝不采信客户端的标记状态。
// 免费格（0）始终视为已标记。
func Marks(b *Board, called []int) [][]bool {
	set := make(map[int]bool, len(called))
	for _, n := range called {
		set[n] = true
	}

	marks := make([][]bool, b.Rows)
	for r := 0; r < b.Rows; r++ {
		marks[r] = make([]bool, b.Cols)
		for c := 0; c < b.Cols; c++ {
			n := b.Cells[r][c]
			marks[r][c] = n == 0 || set[n]
		}
	}
	return marks
}

// CheckPattern 对推导出的标记矩阵做精确几何判定。
// 同样的 called 与卡片必然得出同样的判定结果。
func CheckPattern(b *Board, called []int, pattern Pattern) bool {
	marks := Marks(b, called)

	switch pattern {
	case PatternLine:
		return checkLine(b, marks)
	case PatternFullHouse:
		return checkFullHouse(b, marks)
	case PatternFourCorners:
		return marks[0][0] && marks[0][b.Cols-1] && marks[b.Rows-1][0] && marks[b.Rows-1][b.Cols-1]
	case PatternX:
		return checkDiagonals(b, marks)
	default:
		return false
	}
}

// checkLine 任意整行、整列，方形卡片再加两条对角线
func checkLine(b *Board, marks [][]bool) bool {
	for r := 0; r < b.Rows; r++ {
		full := true
		for c := 0; c < b.Cols; c++ {
			if !marks[r][c] {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	for c := 0; c < b.Cols; c++ {
		full := true
		for r := 0; r < b.Rows; r++ {
			if !marks[r][c] {
				full = false
				break
			}
		}
		if full {
			return true
		}
	}

	if b.Rows == b.Cols {
		main, anti := diagonalStatus(b, marks)
		return main || anti
	}
	return false
}

func checkFullHouse(b *Board, marks [][]bool) bool {
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if !marks[r][c] {
				return false
			}
		}
	}
	return true
}

// checkDiagonals X 形：两条对角线都标满，仅方形卡片有意义
func checkDiagonals(b *Board, marks [][]bool) bool {
	if b.Rows != b.Cols {
		return false
	}
	main, anti := diagonalStatus(b, marks)
	return main && anti
}

func diagonalStatus(b *Board, marks [][]bool) (main, anti bool) {
	main, anti = true, true
	for i := 0; i < b.Rows; i++ {
		if !marks[i][i] {
			main = false
		}
		if !marks[i][b.Cols-1-i] {
			anti = false
		}
	}
	return main, anti
}
