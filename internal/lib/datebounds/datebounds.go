// Package datebounds содержит календарные функции для отчётных периодов.
//
// Неделя начинается с воскресенья — отчётная неделя отдела продаж.
// Все границы считаются по календарным датам без компоненты времени.
package datebounds

import "time"

// DateFormat — формат дат, принятый во всём приложении.
const DateFormat = "2006-01-02"

// WeekBounds возвращает первый и последний день недели, содержащей d.
func WeekBounds(d time.Time) (time.Time, time.Time) {
	offset := int(d.Weekday()) // Sunday == 0
	start := d.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return truncate(start), truncate(end)
}

// MonthBounds возвращает первый и последний день месяца, содержащего d.
func MonthBounds(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysBetween возвращает все даты периода [start, end] включительно
// в виде строк формата DateFormat.
func DaysBetween(start, end time.Time) []string {
	var days []string
	for d := truncate(start); !d.After(truncate(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateFormat))
	}
	return days
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
