// Package export формирует выгрузки отчётов: CSV для таблиц и XLSX.
//
// CSV пишется с UTF-8 BOM и с закавычиванием каждого поля — так файлы
// с ивритскими названиями товаров корректно открываются в Excel.
package export

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

const utf8BOM = "\xef\xbb\xbf"

// EncodeCSV сериализует строки в CSV: запятая-разделитель, каждое поле
// в двойных кавычках, строки завершаются LF.
func EncodeCSV(rows [][]string) []byte {
	var b bytes.Buffer
	b.WriteString(utf8BOM)
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// TeamReportRows строит табличное представление командного отчёта:
// заголовок с названиями товаров, по строке на участника.
func TeamReportRows(rows []models.TeamRow, products []models.Product) [][]string {
	header := []string{"Email", "Name", "Team"}
	for _, p := range products {
		header = append(header, p.Name)
	}
	header = append(header, "Total")

	out := [][]string{header}
	for _, r := range rows {
		line := []string{r.Email, r.Name, r.Team}
		for _, p := range products {
			line = append(line, strconv.Itoa(r.Counts[p.Code]))
		}
		line = append(line, strconv.Itoa(r.Total))
		out = append(out, line)
	}
	return out
}

// SummaryRows строит табличное представление личной сводки.
func SummaryRows(email string, summary *models.Summary, products []models.Product) [][]string {
	out := [][]string{{"Email", "Product", "Qty"}}
	for _, p := range products {
		out = append(out, []string{email, p.Name, strconv.Itoa(summary.Counts[p.Code])})
	}
	out = append(out, []string{email, "Total bonus", strconv.Itoa(summary.Total)})
	return out
}

// UserRows строит табличное представление списка пользователей.
func UserRows(users []models.User) [][]string {
	out := [][]string{{"Email", "Name", "Team", "Admin", "Created"}}
	for _, u := range users {
		admin := "no"
		if u.IsAdmin {
			admin = "yes"
		}
		out = append(out, []string{
			u.Email, u.Name, u.Team, admin,
			u.CreatedAt.Format("2006-01-02"),
		})
	}
	return out
}
