package game

import (
	"math/rand"
	"testing"
)

// testBoard 3x3 卡片，中心为免费格
func testBoard() *Board {
	return &Board{
		Variant: Type30Ball,
		Rows:    3,
		Cols:    3,
		Cells: [][]int{
			{1, 2, 3},
			{4, 0, 6},
			{7, 8, 9},
		},
	}
}

func TestCheckPattern_LineRow(t *testing.T) {
	b := testBoard()
	if !CheckPattern(b, []int{1, 2, 3}, PatternLine) {
		t.Error("Complete top row should win line")
	}
	if CheckPattern(b, []int{1, 2}, PatternLine) {
		t.Error("Incomplete row should not win line")
	}
}

func TestCheckPattern_LineColumn(t *testing.T) {
	b := testBoard()
	if !CheckPattern(b, []int{1, 4, 7}, PatternLine) {
		t.Error("Complete left column should win line")
	}
}

func TestCheckPattern_LineDiagonalWithFreeCell(t *testing.T) {
	b := testBoard()
	// 中心免费格补齐主对角线
	if !CheckPattern(b, []int{1, 9}, PatternLine) {
		t.Error("Diagonal through the free cell should win line")
	}
}

func TestCheckPattern_FourCorners(t *testing.T) {
	b := testBoard()
	if !CheckPattern(b, []int{1, 3, 7, 9}, PatternFourCorners) {
		t.Error("All four corners marked should win")
	}
	if CheckPattern(b, []int{1, 3, 7}, PatternFourCorners) {
		t.Error("Three corners should not win")
	}
}

func TestCheckPattern_X(t *testing.T) {
	b := testBoard()
	if !CheckPattern(b, []int{1, 3, 7, 9}, PatternX) {
		t.Error("Both diagonals marked should win x")
	}
	if CheckPattern(b, []int{1, 9}, PatternX) {
		t.Error("Only main diagonal should not win x")
	}
}

func TestCheckPattern_FullHouse(t *testing.T) {
	b := testBoard()
	all := []int{1, 2, 3, 4, 6, 7, 8, 9}
	if !CheckPattern(b, all, PatternFullHouse) {
		t.Error("Every cell marked should win full-house")
	}
	if CheckPattern(b, all[:7], PatternFullHouse) {
		t.Error("Missing cell should not win full-house")
	}
}

func TestCheckPattern_IgnoresUncalledNumbers(t *testing.T) {
	b := testBoard()
	// 不在卡片上的号码不影响判定
	if CheckPattern(b, []int{10, 11, 12, 13}, PatternLine) {
		t.Error("Numbers not on the board should not mark anything")
	}
}

// 判定可复现：同样的叫号记录与卡片必然得出同样结果
func TestCheckPattern_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewBoard(Type75Ball, rng)
	called := []int{3, 17, 31, 48, 62, 74, 9, 21}

	first := CheckPattern(b, called, PatternLine)
	for i := 0; i < 10; i++ {
		if CheckPattern(b, called, PatternLine) != first {
			t.Fatal("Verification verdict changed between evaluations")
		}
	}
}

func TestCheckPattern_XOnNonSquareBoard(t *testing.T) {
	b := NewBoard(Type90Ball, rand.New(rand.NewSource(5)))
	all := make([]int, 90)
	for i := range all {
		all[i] = i + 1
	}
	if CheckPattern(b, all, PatternX) {
		t.Error("x pattern is undefined on a non-square board")
	}
}

func TestParsePattern(t *testing.T) {
	if _, err := ParsePattern("full-house"); err != nil {
		t.Errorf("full-house should parse, got %v", err)
	}
	if _, err := ParsePattern("LINE"); err != nil {
		t.Errorf("Parsing should be case-insensitive, got %v", err)
	}
	if _, err := ParsePattern("blackout-bonus"); err != ErrUnknownPattern {
		t.Errorf("Expected ErrUnknownPattern, got %v", err)
	}
}
