package domain

import (
	"fmt"
	"strconv"
)

// EntityID — 64-битный идентификатор сущности.
//
// EntityID является value-type и предназначен для дешёвого копирования,
// сериализации и сравнения. Агенты никогда не держат прямых ссылок на
// цели: цель всегда разрешается по ID через Roster каждый тик, поэтому
// умершая цель безопасно превращается в "не найдено", а не в висячий
// указатель.
//
// Формат битов (от старших к младшим):
//
//	[ зарезервировано (8) | Class (8) | Generation (16) | Index (32) ]
//
// Где:
//   - Class — класс сущности (агент, бот, машина и т.д.)
//   - Generation — версия слота (защита от устаревших ссылок)
//   - Index — индекс слота в Roster
type EntityID uint64

// NilEntityID — нулевой идентификатор сущности.
//
// Используется как аналог nil: цель отсутствует или ссылка
// ещё не инициализирована.
const NilEntityID EntityID = 0

// EntityClass — класс сущности, хранимый внутри EntityID.
type EntityClass uint8

const (
	ClassNone EntityClass = iota
	ClassAgent
	ClassPlayer
	ClassCar
	ClassSurvivor
	ClassMaterial
	ClassCarrierBot
	ClassTransportBot
	ClassPatrolBot
)

// Конфигурация битов EntityID.
const (
	bitsIndex = 32
	bitsGen   = 16
	bitsClass = 8

	shiftGen   = bitsIndex
	shiftClass = bitsIndex + bitsGen

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskClass = (1 << bitsClass) - 1
)

// PackEntityID собирает EntityID из составных частей.
//
// Функция не проверяет диапазоны и предполагает валидные входные данные.
// Поколение 0 зарезервировано под NilEntityID, поэтому Roster начинает
// счёт поколений с 1.
func PackEntityID(class EntityClass, gen uint16, index uint32) EntityID {
	return EntityID(
		(uint64(class) << shiftClass) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

// Index возвращает индекс слота в Roster.
func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

// Generation возвращает поколение слота.
//
// Используется для обнаружения устаревших ссылок на уничтоженные сущности.
func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

// Class возвращает класс сущности.
func (id EntityID) Class() EntityClass {
	return EntityClass((id >> shiftClass) & maskClass)
}

// IsNil проверяет, является ли идентификатор нулевым.
func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// String возвращает человекочитаемое представление для логов.
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf(
		"[class=%d gen=%d idx=%d]",
		id.Class(),
		id.Generation(),
		id.Index(),
	)
}

// MarshalJSON сериализует EntityID в JSON как строку.
//
// Это необходимо для предотвращения потери точности при работе с
// JavaScript и другими средами, не поддерживающими uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON десериализует EntityID из JSON.
//
// Поддерживаются как строковое, так и числовое представление.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}

	*id = EntityID(v)
	return nil
}
