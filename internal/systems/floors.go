package systems

import "github.com/tos-kamiya/zombie-escape-sub001/internal/domain"

// FloorDrift возвращает аддитивный снос от движущегося пола под телом.
// Снос не зависит от ввода и применяется до разрешения коллизий.
func FloorDrift(l *domain.Layout, x, y float64) (float64, float64) {
	if l == nil {
		return 0, 0
	}
	dir, ok := l.FloorDirAt(x, y)
	if !ok {
		return 0, 0
	}
	dx, dy := dir.Delta()
	return float64(dx) * domain.FloorDriftSpeed, float64(dy) * domain.FloorDriftSpeed
}
