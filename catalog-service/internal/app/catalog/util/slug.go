package util

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s_-]+`)
)

// Slugify выводит URL-безопасный идентификатор из отображаемого имени:
// нижний регистр, пунктуация отбрасывается, пробелы и подчеркивания
// сводятся к одиночному дефису, дефисы по краям обрезаются.
// "Men's Shoes!!" -> "mens-shoes".
//
// Вызывается ровно один раз перед первым сохранением Category,
// SubCategory или Product и только если slug не был передан явно.
// При переименовании slug не перегенерируется. Уникальность slug
// обеспечивает UNIQUE constraint в БД, а не эта функция
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
