package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
)

func TestExtractWords(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple sentence",
			text: "Go is simple. Go is fast!",
			want: []string{"go", "is", "simple", "go", "is", "fast"},
		},
		{
			name: "digits and punctuation are boundaries",
			text: "file42name, test-case_2",
			want: []string{"file", "name", "test", "case"},
		},
		{
			name: "cyrillic letters",
			text: "Курсовая работа по Go",
			want: []string{"курсовая", "работа", "по", "go"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "no letters at all",
			text: "123 456 !!!",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractWords(tc.text)
			require.Equal(t, tc.want, append([]string{}, got...))
		})
	}
}

func TestTopWordsOrdering(t *testing.T) {
	words := ExtractWords("b a a c b a c d")

	top := TopWords(words, 30)
	require.Equal(t, []models.WordCount{
		{Word: "a", Count: 3},
		{Word: "b", Count: 2},
		{Word: "c", Count: 2},
		{Word: "d", Count: 1},
	}, top)
}

func TestTopWordsTieBrokenByFirstOccurrence(t *testing.T) {
	// zz встречается раньше aa, счётчики равны — zz должен идти первым.
	words := ExtractWords("zz aa zz aa")

	top := TopWords(words, 2)
	require.Equal(t, []models.WordCount{
		{Word: "zz", Count: 2},
		{Word: "aa", Count: 2},
	}, top)
}

func TestTopWordsLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		word := strings.Repeat(string(rune('a'+i%26)), i/26+1)
		sb.WriteString(word + " ")
	}

	top := TopWords(ExtractWords(sb.String()), 30)
	require.LessOrEqual(t, len(top), 30)
}

func TestDecodeTextReplacesInvalidUTF8(t *testing.T) {
	raw := []byte{'h', 'i', 0xff, 0xfe, ' ', 't', 'h', 'e', 'r', 'e'}

	text := DecodeText(raw)
	require.True(t, utf8.ValidString(text))
	require.Contains(t, text, "hi")
	require.Contains(t, text, "there")
	require.Contains(t, text, string(utf8.RuneError))
}

func TestAnalyze(t *testing.T) {
	raw := []byte("alpha beta alpha")

	stats, top := Analyze(raw)
	require.Equal(t, int64(len(raw)), stats.Bytes)
	require.Equal(t, len("alpha beta alpha"), stats.ApproxChars)
	require.Equal(t, 3, stats.Words)
	require.Empty(t, stats.Warning)
	require.Equal(t, []models.WordCount{
		{Word: "alpha", Count: 2},
		{Word: "beta", Count: 1},
	}, top)
}
