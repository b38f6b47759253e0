// Package days считает длительность аренды в сутках.
package days

import "time"

// Day длительность суток аренды.
const Day = 24 * time.Hour

// Between количество суток между датами, округлённое вверх.
// Для end <= start возвращает 0.
func Between(start, end time.Time) int {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	n := int(diff / Day)
	if diff%Day != 0 {
		n++
	}
	return n
}

// Price стоимость аренды: число суток, умноженное на цену за сутки.
func Price(start, end time.Time, pricePerDay int64) int64 {
	return int64(Between(start, end)) * pricePerDay
}
