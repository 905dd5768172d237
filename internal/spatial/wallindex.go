package spatial

import (
	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// WallIndex — ведра стен для узкой фазы коллизий. Клетка ведра крупнее
// клетки Index: стены статичны, их мало, и запрос обычно хочет все
// стены в паре ведер вокруг тела.
//
// Перестраивается не каждый кадр, а по сигналу layout (разрушение
// стены). Мертвые стены при перестройке выпадают из ведер.
type WallIndex struct {
	CellSize float64

	buckets map[domain.Cell][]*domain.Wall

	seen    map[*domain.Wall]uint64
	queryID uint64
}

// NewWallIndex создает индекс стен с заданным размером ведра.
func NewWallIndex(cellSize float64) *WallIndex {
	if cellSize <= 0 {
		cellSize = domain.WallIndexCellSize
	}
	return &WallIndex{
		CellSize: cellSize,
		buckets:  make(map[domain.Cell][]*domain.Wall),
		seen:     make(map[*domain.Wall]uint64),
	}
}

// Rebuild заново раскладывает живые стены по ведрам.
func (wx *WallIndex) Rebuild(walls []*domain.Wall) {
	clear(wx.buckets)
	clear(wx.seen)
	for _, w := range walls {
		if !w.Alive() {
			continue
		}
		lo := domain.CellAt(w.Rect.X, w.Rect.Y, wx.CellSize)
		hi := domain.CellAt(w.Rect.Right(), w.Rect.Bottom(), wx.CellSize)
		for gy := lo.Y; gy <= hi.Y; gy++ {
			for gx := lo.X; gx <= hi.X; gx++ {
				c := domain.Cell{X: gx, Y: gy}
				wx.buckets[c] = append(wx.buckets[c], w)
			}
		}
	}
}

// NearCircle возвращает живые стены, чьи ведра пересекает квадрат
// центр +/- радиус. Это кандидаты широкой фазы: точную проверку формы
// делает вызывающий.
func (wx *WallIndex) NearCircle(cx, cy, radius float64) []*domain.Wall {
	return wx.NearRect(geom.Rect{X: cx - radius, Y: cy - radius, W: radius * 2, H: radius * 2})
}

// NearRect возвращает живые стены рядом с прямоугольником.
func (wx *WallIndex) NearRect(rect geom.Rect) []*domain.Wall {
	wx.queryID++

	var out []*domain.Wall
	lo := domain.CellAt(rect.X, rect.Y, wx.CellSize)
	hi := domain.CellAt(rect.Right(), rect.Bottom(), wx.CellSize)
	for gy := lo.Y; gy <= hi.Y; gy++ {
		for gx := lo.X; gx <= hi.X; gx++ {
			for _, w := range wx.buckets[domain.Cell{X: gx, Y: gy}] {
				if wx.seen[w] == wx.queryID {
					continue
				}
				wx.seen[w] = wx.queryID
				if w.Alive() {
					out = append(out, w)
				}
			}
		}
	}
	return out
}
