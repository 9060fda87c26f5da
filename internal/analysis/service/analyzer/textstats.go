package analyzer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
)

// DecodeText превращает произвольные байты в текст: некорректные
// UTF-8 последовательности заменяются на U+FFFD, а не роняют анализ.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// ExtractWords — ленивый токенизатор: нижний регистр,
// границы слов — любые не-буквенные символы.
func ExtractWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// TopWords возвращает limit самых частых слов по убыванию счётчика;
// при равных счётчиках раньше идёт слово, встретившееся первым.
func TopWords(words []string, limit int) []models.WordCount {
	if limit <= 0 || len(words) == 0 {
		return []models.WordCount{}
	}

	counts := make(map[string]int, len(words))
	firstSeen := make(map[string]int, len(words))
	order := make([]string, 0, len(words))

	for i, word := range words {
		if _, ok := counts[word]; !ok {
			firstSeen[word] = i
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	top := make([]models.WordCount, 0, len(order))
	for _, word := range order {
		top = append(top, models.WordCount{Word: word, Count: counts[word]})
	}

	return top
}

// Analyze считает статистику по сырым байтам работы.
func Analyze(raw []byte) (models.TextStats, []models.WordCount) {
	text := DecodeText(raw)
	words := ExtractWords(text)

	stats := models.TextStats{
		Bytes:       int64(len(raw)),
		ApproxChars: utf8.RuneCountInString(text),
		Words:       len(words),
	}

	return stats, TopWords(words, 30)
}
