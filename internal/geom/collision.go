package geom

// Тесты пересечений примитивов. Все функции чистые, без аллокаций:
// вызываются для каждой стены рядом с каждым движущимся телом каждый кадр.

// CircleRectCollision проверяет пересечение окружности и прямоугольника.
// Центр окружности прижимается к ближайшей точке прямоугольника,
// затем сравнивается квадрат расстояния с квадратом радиуса.
func CircleRectCollision(cx, cy, radius float64, r Rect) bool {
	nx := clamp(cx, r.X, r.X+r.W)
	ny := clamp(cy, r.Y, r.Y+r.H)
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy <= radius*radius
}

// PointInPolygon — стандартный ray crossing, O(vertices).
// Полигон задаётся списком вершин без повторения первой в конце.
func PointInPolygon(px, py float64, poly []Vec2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		yi := poly[i].Y
		yj := poly[j].Y
		if (yi > py) != (yj > py) {
			t := (py - yi) / (yj - yi)
			if px < poly[i].X+t*(poly[j].X-poly[i].X) {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PointSegmentDistanceSq возвращает квадрат расстояния от точки до отрезка AB.
// Вырожденный отрезок (A == B) трактуется как точка.
func PointSegmentDistanceSq(px, py, ax, ay, bx, by float64) float64 {
	abx := bx - ax
	aby := by - ay
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		dx := px - ax
		dy := py - ay
		return dx*dx + dy*dy
	}

	t := ((px-ax)*abx + (py-ay)*aby) / lenSq
	t = clamp(t, 0, 1)

	dx := px - (ax + t*abx)
	dy := py - (ay + t*aby)
	return dx*dx + dy*dy
}

// CirclePolygonCollision проверяет пересечение окружности и выпуклого полигона:
// либо центр внутри, либо хотя бы одно ребро ближе радиуса.
func CirclePolygonCollision(cx, cy, radius float64, poly []Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	if PointInPolygon(cx, cy, poly) {
		return true
	}

	rsq := radius * radius
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		if PointSegmentDistanceSq(cx, cy, poly[j].X, poly[j].Y, poly[i].X, poly[i].Y) <= rsq {
			return true
		}
		j = i
	}
	return false
}

// SegmentsIntersect проверяет пересечение отрезков p1p2 и p3p4,
// включая касание концами и коллинеарное наложение.
func SegmentsIntersect(p1, p2, p3, p4 Vec2) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Коллинеарные случаи: конец одного отрезка лежит на другом.
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// cross возвращает знак поворота (b-a) x (p-a).
func cross(a, b, p Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// onSegment проверяет, лежит ли точка p в ограничивающем прямоугольнике
// отрезка ab. Вызывается только для коллинеарных точек.
func onSegment(a, b, p Vec2) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// RectPolygonCollision проверяет пересечение прямоугольника и полигона.
// Порядок проверок: быстрый bbox-отсев, углы прямоугольника внутри полигона,
// вершины полигона внутри прямоугольника, попарное пересечение рёбер.
func RectPolygonCollision(r Rect, poly []Vec2) bool {
	if len(poly) < 3 {
		return false
	}

	// 1. Bounding box отсев
	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := minX, minY
	for _, v := range poly[1:] {
		minX = min(minX, v.X)
		minY = min(minY, v.Y)
		maxX = max(maxX, v.X)
		maxY = max(maxY, v.Y)
	}
	if maxX < r.X || minX > r.X+r.W || maxY < r.Y || minY > r.Y+r.H {
		return false
	}

	corners := r.Corners()

	// 2. Угол прямоугольника внутри полигона
	for _, c := range corners {
		if PointInPolygon(c.X, c.Y, poly) {
			return true
		}
	}

	// 3. Вершина полигона внутри прямоугольника
	for _, v := range poly {
		if r.ContainsPoint(v.X, v.Y) {
			return true
		}
	}

	// 4. Пересечение рёбер
	for i := 0; i < len(poly); i++ {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		for k := 0; k < 4; k++ {
			if SegmentsIntersect(a, b, corners[k], corners[(k+1)%4]) {
				return true
			}
		}
	}
	return false
}
