package outwriter

import (
	"fmt"
	"strconv"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
)

var countWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

// FormatArticleLine renders an article answer, e.g. "Title" - 9999 views.
func FormatArticleLine(v schema.ArticleViewCount) string {
	return fmt.Sprintf("\"%s\" - %d views", v.Article.Title, v.Views)
}

// FormatAuthorLine renders an author answer, e.g. Name - 9999 views.
func FormatAuthorLine(v schema.AuthorViewCount) string {
	return fmt.Sprintf("%s - %d views", v.Author.Name, v.Views)
}

// FormatErrorDayLine renders an error day answer, e.g. July 17, 2016 - 2.3% errors.
func FormatErrorDayLine(s schema.DailyErrorStat) string {
	return fmt.Sprintf("%s - %.1f%% errors", s.Day.Format(contract.DayFormat), s.ErrorRate)
}

// QuestionText returns the question heading a section, filled in from cfg.
func QuestionText(section schema.Section, cfg *contract.Config) string {
	switch section {
	case schema.ArticlesSection:
		return fmt.Sprintf(schema.QuestionFormats[section], countWord(cfg.ResultLimit))
	case schema.ErrorDaysSection:
		return fmt.Sprintf(schema.QuestionFormats[section], strconv.FormatFloat(cfg.ErrorThreshold, 'f', -1, 64))
	default:
		return schema.QuestionFormats[section]
	}
}

// countWord spells out small counts and falls back to digits.
func countWord(n int) string {
	if n >= 0 && n < len(countWords) {
		return countWords[n]
	}
	return strconv.Itoa(n)
}
