package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
)

const quickChartWordCloudURL = "https://quickchart.io/wordcloud"

type WordCloudService interface {
	RenderReportWordCloudPNG(ctx context.Context, reportID string, opts WordCloudOptions) ([]byte, error)
}

type WordCloudOptions struct {
	Width           int
	Height          int
	MaxNumWords     int
	MinWordLength   int
	RemoveStopwords bool
	Language        string
}

type wordCloudService struct {
	reportGetter ReportService
	httpClient   *http.Client
	endpoint     string
	logger       zerolog.Logger
}

func NewWordCloudService(reports ReportService, logger zerolog.Logger) WordCloudService {
	return &wordCloudService{
		reportGetter: reports,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		endpoint:     quickChartWordCloudURL,
		logger:       logger,
	}
}

// RenderReportWordCloudPNG строит облако слов по артефакту отчёта.
// Текст восстанавливается из top_words: каждое слово повторяется по
// своему счётчику (с потолком, чтобы не раздуть запрос).
func (s *wordCloudService) RenderReportWordCloudPNG(ctx context.Context, reportID string, opts WordCloudOptions) ([]byte, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, fmt.Errorf("%w: report id is required", ErrInvalidRequest)
	}
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, fmt.Errorf("%w: invalid report_id", ErrInvalidRequest)
	}

	content, err := s.reportGetter.GetReportContent(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if len(content.TopWords) == 0 {
		return nil, ErrFileContentEmpty
	}

	text := rebuildText(content.TopWords)

	width := opts.Width
	if width <= 0 {
		width = 800
	}
	height := opts.Height
	if height <= 0 {
		height = 600
	}
	maxWords := opts.MaxNumWords
	if maxWords <= 0 {
		maxWords = 200
	}
	minLen := opts.MinWordLength
	if minLen <= 0 {
		minLen = 2
	}
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = "ru"
	}

	payload := map[string]interface{}{
		"text":            text,
		"format":          "png",
		"width":           width,
		"height":          height,
		"maxNumWords":     maxWords,
		"minWordLength":   minLen,
		"removeStopwords": opts.RemoveStopwords,
		"language":        lang,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quickchart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrQuickChartError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrQuickChartError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: returned status %d: %s", ErrQuickChartError, resp.StatusCode, string(b))
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrQuickChartError, err)
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("%w: returned empty image", ErrQuickChartError)
	}

	s.logger.Info().
		Str("report_id", content.ReportID).
		Str("work_id", content.WorkID).
		Int("png_size", len(img)).
		Msg("Word cloud generated")

	return img, nil
}

func rebuildText(top []models.WordCount) string {
	var sb strings.Builder
	for _, wc := range top {
		repeat := wc.Count
		if repeat > 10 {
			repeat = 10
		}
		for i := 0; i < repeat; i++ {
			sb.WriteString(wc.Word)
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}
