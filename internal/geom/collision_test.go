package geom

import "testing"

func TestCircleRectCollision(t *testing.T) {
	wall := Rect{X: 100, Y: 100, W: 40, H: 40}

	// Центр внутри
	if !CircleRectCollision(120, 120, 5, wall) {
		t.Error("Expected collision for center inside rect")
	}

	// Касание грани слева: центр в (90,120), радиус 10 ровно до x=100
	if !CircleRectCollision(90, 120, 10, wall) {
		t.Error("Expected collision for circle touching left edge")
	}

	// Чуть дальше грани
	if CircleRectCollision(89, 120, 10, wall) {
		t.Error("Expected no collision just beyond left edge")
	}

	// Диагональ к углу: расстояние до (100,100) = sqrt(50) ≈ 7.07
	if !CircleRectCollision(95, 95, 8, wall) {
		t.Error("Expected collision near corner")
	}
	if CircleRectCollision(95, 95, 7, wall) {
		t.Error("Expected no collision near corner with smaller radius")
	}
}

func TestPointInPolygon(t *testing.T) {
	// Квадрат 0,0 - 10,10
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	if !PointInPolygon(5, 5, square) {
		t.Error("Expected (5,5) inside square")
	}
	if PointInPolygon(15, 5, square) {
		t.Error("Expected (15,5) outside square")
	}
	if PointInPolygon(-1, -1, square) {
		t.Error("Expected (-1,-1) outside square")
	}

	// Вырожденный полигон (меньше 3 вершин) никогда не содержит точек
	if PointInPolygon(0, 0, []Vec2{{0, 0}, {1, 1}}) {
		t.Error("Expected degenerate polygon to contain nothing")
	}
}

func TestPointSegmentDistanceSq(t *testing.T) {
	// Точка над серединой горизонтального отрезка
	d := PointSegmentDistanceSq(5, 3, 0, 0, 10, 0)
	if d != 9 {
		t.Errorf("Expected distSq 9, got %f", d)
	}

	// Проекция за концом отрезка: ближайшая точка - конец (10,0)
	d = PointSegmentDistanceSq(13, 4, 0, 0, 10, 0)
	if d != 25 {
		t.Errorf("Expected distSq 25, got %f", d)
	}

	// Вырожденный отрезок нулевой длины
	d = PointSegmentDistanceSq(3, 4, 0, 0, 0, 0)
	if d != 25 {
		t.Errorf("Expected distSq 25 for zero-length segment, got %f", d)
	}
}

func TestCirclePolygonCollision(t *testing.T) {
	// Стена со срезанным правым верхним углом:
	//
	//   +------\
	//   |       \
	//   |        |
	//   +--------+
	//
	poly := []Vec2{{0, 0}, {30, 0}, {40, 10}, {40, 40}, {0, 40}}

	// Центр внутри
	if !CirclePolygonCollision(20, 20, 5, poly) {
		t.Error("Expected collision for center inside")
	}

	// Окружность у скошенного ребра (30,0)-(40,10): точка (38,2) лежит
	// снаружи от фаски, расстояние до ребра ≈ 4.24
	if !CirclePolygonCollision(38, 2, 5, poly) {
		t.Error("Expected collision near bevel edge")
	}
	if CirclePolygonCollision(38, 2, 3, poly) {
		t.Error("Expected no collision near bevel edge with smaller radius")
	}

	// Далеко
	if CirclePolygonCollision(100, 100, 5, poly) {
		t.Error("Expected no collision far away")
	}
}

func TestSegmentsIntersect(t *testing.T) {
	// Крест
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{10, 10}, Vec2{0, 10}, Vec2{10, 0}) {
		t.Error("Expected crossing segments to intersect")
	}

	// Параллельные
	if SegmentsIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 5}, Vec2{10, 5}) {
		t.Error("Expected parallel segments not to intersect")
	}

	// Касание концом
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{10, 0}, Vec2{10, 10}) {
		t.Error("Expected touching endpoints to count as intersection")
	}

	// Коллинеарное наложение
	if !SegmentsIntersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{5, 0}, Vec2{15, 0}) {
		t.Error("Expected collinear overlap to intersect")
	}
}

func TestRectPolygonCollision(t *testing.T) {
	tri := []Vec2{{0, 0}, {20, 0}, {10, 20}}

	// Прямоугольник целиком внутри треугольника
	if !RectPolygonCollision(Rect{X: 8, Y: 4, W: 4, H: 4}, tri) {
		t.Error("Expected rect inside polygon to collide")
	}

	// Треугольник целиком внутри большого прямоугольника
	if !RectPolygonCollision(Rect{X: -10, Y: -10, W: 50, H: 50}, tri) {
		t.Error("Expected polygon inside rect to collide")
	}

	// Пересечение только рёбрами (прямоугольник протыкает треугольник насквозь)
	if !RectPolygonCollision(Rect{X: -5, Y: 5, W: 30, H: 2}, tri) {
		t.Error("Expected edge-crossing rect to collide")
	}

	// Рядом, но без пересечения
	if RectPolygonCollision(Rect{X: 30, Y: 0, W: 5, H: 5}, tri) {
		t.Error("Expected separated rect not to collide")
	}

	// Bbox пересекается, а фигуры нет: прямоугольник у "пустого" угла bbox треугольника
	if RectPolygonCollision(Rect{X: 17, Y: 15, W: 2, H: 2}, tri) {
		t.Error("Expected rect in empty bbox corner not to collide")
	}
}
