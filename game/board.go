// game/board.go
package game

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
)

// Type 表示游戏玩法变体
type Type string

const (
	Type75Ball   Type = "75ball"
	Type90Ball   Type = "90ball"
	Type30Ball   Type = "30ball"
	TypePattern  Type = "pattern"
	TypeCoverall Type = "coverall"
)

// ErrUnknownGameType is returned when an inbound game type does not match a variant.
var ErrUnknownGameType = errors.New("unknown game type")

func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(s)) {
	case Type75Ball, Type90Ball, Type30Ball, TypePattern, TypeCoverall:
		return Type(strings.ToLower(s)), nil
	default:
		return "", ErrUnknownGameType
	}
}

// NumberSpace 返回该玩法可叫号码的最大值（号码从 1 开始）
func (t Type) NumberSpace() int {
	switch t {
	case Type90Ball:
		return 90
	case Type30Ball:
		return 30
	default:
		return 75
	}
}

// DefaultPattern 返回该玩法默认的获胜规则
func (t Type) DefaultPattern() Pattern {
	switch t {
	case TypeCoverall:
		return PatternFullHouse
	case TypePattern:
		return PatternX
	default:
		return PatternLine
	}
}

// Board 是一名玩家的卡片。Cells 中 0 表示免费格（始终视为已标记）。
// 卡片在一局开始时生成，整局内不可变。
type Board struct {
	Variant Type    `json:"variant"`
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Cells   [][]int `json:"cells"`
}

// NewBoard 按玩法生成一张卡片。纯函数：同一 rng 序列生成同一张卡片。
func NewBoard(t Type, rng *rand.Rand) *Board {
	switch t {
	case Type90Ball:
		return newColumnBoard(t, 3, 9, 10, rng, false)
	case Type30Ball:
		return new30BallBoard(rng)
	default: // 75ball, pattern, coverall 共用 5x5 卡片
		return newColumnBoard(t, 5, 5, 15, rng, true)
	}
}

// newColumnBoard 按列取数：第 c 列的号码取自 [c*span+1, (c+1)*span]。
func newColumnBoard(t Type, rows, cols, span int, rng *rand.Rand, freeCenter bool) *Board {
	cells := make([][]int, rows)
	for r := range cells {
		cells[r] = make([]int, cols)
	}

	for c := 0; c < cols; c++ {
		picks := rng.Perm(span)[:rows]
		sort.Ints(picks)
		for r := 0; r < rows; r++ {
			cells[r][c] = c*span + picks[r] + 1
		}
	}

	if freeCenter {
		cells[rows/2][cols/2] = 0
	}

	return &Board{Variant: t, Rows: rows, Cols: cols, Cells: cells}
}

// new30BallBoard 生成 3x3 速攻卡，号码取自 1..30
func new30BallBoard(rng *rand.Rand) *Board {
	picks := rng.Perm(30)[:9]
	cells := make([][]int, 3)
	for r := 0; r < 3; r++ {
		cells[r] = make([]int, 3)
		for c := 0; c < 3; c++ {
			cells[r][c] = picks[r*3+c] + 1
		}
	}
	return &Board{Variant: Type30Ball, Rows: 3, Cols: 3, Cells: cells}
}

// Numbers 返回卡片上的全部号码（不含免费格）
func (b *Board) Numbers() []int {
	var nums []int
	for _, row := range b.Cells {
		for _, n := range row {
			if n != 0 {
				nums = append(nums, n)
			}
		}
	}
	return nums
}
