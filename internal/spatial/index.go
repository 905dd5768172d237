// Package spatial — пространственные индексы игрового поля.
//
// Index — эфемерная сетка "клетка -> сущности" для поиска соседей,
// WallIndex — ведра стен для узкой фазы коллизий. Оба индекса живут
// внутри однопоточного цикла симуляции и не потокобезопасны.
package spatial

import (
	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// Entity — минимальный контракт сущности для индекса: центр и радиус.
// Реализуется встраиванием domain.Mover.
type Entity interface {
	Center() (float64, float64)
	CollisionRadius() float64
}

type indexEntry struct {
	e     Entity
	kinds domain.Kind
}

// Index — равномерная сетка ведер для запросов "кто рядом".
//
// Размер клетки не связан с тайлом уровня и подбирается под плотность
// запросов. Сущность кладется во все ведра, которые пересекает ее
// ограничивающий квадрат, поэтому у границ она встречается в
// нескольких ведрах - запрос дедуплицирует кандидатов по identity.
//
// Индекс перестраивается владельцем перед каждым кадром (Reset плюс
// серия Insert): устаревшие позиции в запросы не попадают.
type Index struct {
	CellSize float64

	buckets map[domain.Cell][]indexEntry

	// Штамп текущего запроса: дедупликация без очистки карты seen.
	seen    map[Entity]uint64
	queryID uint64
}

// NewIndex создает индекс с заданным размером клетки.
func NewIndex(cellSize float64) *Index {
	if cellSize <= 0 {
		cellSize = domain.SpatialIndexCellSize
	}
	return &Index{
		CellSize: cellSize,
		buckets:  make(map[domain.Cell][]indexEntry),
		seen:     make(map[Entity]uint64),
	}
}

// Reset очищает все ведра перед перестройкой на новый кадр.
func (ix *Index) Reset() {
	clear(ix.buckets)
	clear(ix.seen)
}

// Insert кладет сущность во все ведра, пересекаемые квадратом
// центр +/- радиус. kinds — битовая маска категорий для фильтрации.
func (ix *Index) Insert(e Entity, kinds domain.Kind) {
	x, y := e.Center()
	r := e.CollisionRadius()
	ent := indexEntry{e: e, kinds: kinds}

	lo := domain.CellAt(x-r, y-r, ix.CellSize)
	hi := domain.CellAt(x+r, y+r, ix.CellSize)
	for gy := lo.Y; gy <= hi.Y; gy++ {
		for gx := lo.X; gx <= hi.X; gx++ {
			c := domain.Cell{X: gx, Y: gy}
			ix.buckets[c] = append(ix.buckets[c], ent)
		}
	}
}

// QueryRadius возвращает живые сущности подходящих категорий, чей центр
// лежит в круге (включая границу). Сканирует все ведра, пересекающие
// ограничивающий квадрат круга: лишние кандидаты отсекаются точной
// проверкой расстояния, дубликаты — набором seen.
func (ix *Index) QueryRadius(cx, cy, radius float64, kinds domain.Kind) []Entity {
	if radius < 0 || kinds == 0 {
		return nil
	}
	ix.queryID++
	rsq := radius * radius

	var out []Entity
	lo := domain.CellAt(cx-radius, cy-radius, ix.CellSize)
	hi := domain.CellAt(cx+radius, cy+radius, ix.CellSize)
	for gy := lo.Y; gy <= hi.Y; gy++ {
		for gx := lo.X; gx <= hi.X; gx++ {
			for _, ent := range ix.buckets[domain.Cell{X: gx, Y: gy}] {
				if ent.kinds&kinds == 0 {
					continue
				}
				if ix.seen[ent.e] == ix.queryID {
					continue
				}
				ix.seen[ent.e] = ix.queryID

				ex, ey := ent.e.Center()
				dx := ex - cx
				dy := ey - cy
				if dx*dx+dy*dy <= rsq {
					out = append(out, ent.e)
				}
			}
		}
	}
	return out
}

// QueryAABB возвращает сущности подходящих категорий, чей центр лежит
// внутри прямоугольника (границы включительно).
func (ix *Index) QueryAABB(rect geom.Rect, kinds domain.Kind) []Entity {
	if kinds == 0 {
		return nil
	}
	ix.queryID++

	var out []Entity
	lo := domain.CellAt(rect.X, rect.Y, ix.CellSize)
	hi := domain.CellAt(rect.Right(), rect.Bottom(), ix.CellSize)
	for gy := lo.Y; gy <= hi.Y; gy++ {
		for gx := lo.X; gx <= hi.X; gx++ {
			for _, ent := range ix.buckets[domain.Cell{X: gx, Y: gy}] {
				if ent.kinds&kinds == 0 {
					continue
				}
				if ix.seen[ent.e] == ix.queryID {
					continue
				}
				ix.seen[ent.e] = ix.queryID

				ex, ey := ent.e.Center()
				if rect.ContainsPoint(ex, ey) {
					out = append(out, ent.e)
				}
			}
		}
	}
	return out
}
