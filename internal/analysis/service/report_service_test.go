package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/justwannacode/kpo-hw3/internal/analysis/models"
	"github.com/justwannacode/kpo-hw3/internal/analysis/repository"
	"github.com/justwannacode/kpo-hw3/internal/analysis/service/integration"
)

// In-memory фейки вместо Postgres/MinIO/RabbitMQ.

type fakeSubmissionRepo struct {
	submissions map[string]models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]models.Submission)}
}

func (f *fakeSubmissionRepo) Upsert(_ context.Context, s *models.Submission) error {
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSubmissionRepo) FindEarliestWithDigest(_ context.Context, sha256 string, before time.Time, excludeStudentID string) (*models.Submission, error) {
	var matches []models.Submission
	for _, s := range f.submissions {
		if s.FileSHA256 == sha256 && s.SubmittedAt.Before(before) && s.StudentID != excludeStudentID {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].SubmittedAt.Equal(matches[j].SubmittedAt) {
			return matches[i].SubmittedAt.Before(matches[j].SubmittedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	first := matches[0]
	return &first, nil
}

func (f *fakeSubmissionRepo) Ping(context.Context) error { return nil }

type fakeReportRepo struct {
	reports []models.Report
}

func (f *fakeReportRepo) Create(_ context.Context, r *models.Report) error {
	f.reports = append(f.reports, *r)
	return nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id string) (*models.Report, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) ListByWorkID(_ context.Context, workID string) ([]models.Report, error) {
	var out []models.Report
	for i := len(f.reports) - 1; i >= 0; i-- {
		if f.reports[i].WorkID == workID {
			out = append(out, f.reports[i])
		}
	}
	return out, nil
}

func (f *fakeReportRepo) Ping(context.Context) error { return nil }

type fakeArtifactRepo struct {
	objects map[string][]byte
	putErr  error
}

func newFakeArtifactRepo() *fakeArtifactRepo {
	return &fakeArtifactRepo{objects: make(map[string][]byte)}
}

func (f *fakeArtifactRepo) Put(_ context.Context, path string, content []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[path] = content
	return nil
}

func (f *fakeArtifactRepo) Get(_ context.Context, path string) ([]byte, error) {
	content, ok := f.objects[path]
	if !ok {
		return nil, repository.ErrArtifactMissing
	}
	return content, nil
}

type fakeFileClient struct {
	metas       map[string]*integration.FileMetaResponse
	contents    map[string][]byte
	metaErr     error
	downloadErr error
}

func newFakeFileClient() *fakeFileClient {
	return &fakeFileClient{
		metas:    make(map[string]*integration.FileMetaResponse),
		contents: make(map[string][]byte),
	}
}

func (f *fakeFileClient) GetFileMeta(_ context.Context, fileID string) (*integration.FileMetaResponse, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	meta, ok := f.metas[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", integration.ErrFileNotFound, fileID)
	}
	return meta, nil
}

func (f *fakeFileClient) DownloadContent(_ context.Context, fileID string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	content, ok := f.contents[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", integration.ErrFileNotFound, fileID)
	}
	return content, nil
}

func (f *fakeFileClient) addFile(fileID, sha256 string, content []byte) {
	f.metas[fileID] = &integration.FileMetaResponse{
		ID:        fileID,
		SHA256:    sha256,
		SizeBytes: int64(len(content)),
	}
	f.contents[fileID] = content
}

type fakePublisher struct {
	events []models.ReportCompletedEvent
}

func (f *fakePublisher) PublishReportCompleted(_ context.Context, event interface{}) error {
	f.events = append(f.events, event.(models.ReportCompletedEvent))
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type reportFixture struct {
	svc         ReportService
	submissions *fakeSubmissionRepo
	reports     *fakeReportRepo
	artifacts   *fakeArtifactRepo
	files       *fakeFileClient
	publisher   *fakePublisher
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		submissions: newFakeSubmissionRepo(),
		reports:     &fakeReportRepo{},
		artifacts:   newFakeArtifactRepo(),
		files:       newFakeFileClient(),
		publisher:   &fakePublisher{},
	}
	f.svc = NewReportService(f.submissions, f.reports, f.artifacts, f.files, f.publisher, zerolog.Nop())
	return f
}

func reportRequest(workID, studentID, fileID string, submittedAt time.Time) *models.CreateReportRequest {
	return &models.CreateReportRequest{
		WorkID:       workID,
		StudentID:    studentID,
		AssignmentID: "essay-1",
		SubmittedAt:  submittedAt,
		FileID:       fileID,
	}
}

const (
	workA = "11111111-1111-1111-1111-111111111111"
	workB = "22222222-2222-2222-2222-222222222222"
	fileA = "aaaaaaaa-1111-1111-1111-111111111111"
	fileB = "aaaaaaaa-2222-2222-2222-222222222222"
)

func TestReportService_CreateReport_NoPlagiarism(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("привет мир привет"))

	report, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusCompleted.String(), report.Status)
	require.False(t, report.Plagiarism)
	require.Nil(t, report.PlagiarismReason)

	// Артефакт записан и содержит статистику текста.
	raw, err := f.artifacts.Get(context.Background(), report.ArtifactPath)
	require.NoError(t, err)

	var content models.ReportContent
	require.NoError(t, json.Unmarshal(raw, &content))
	require.Equal(t, report.ID, content.ReportID)
	require.Equal(t, "digest-1", content.FileSHA256)
	require.Equal(t, 3, content.Stats.Words)
	require.Empty(t, content.Stats.Warning)
	require.Equal(t, "привет", content.TopWords[0].Word)
	require.Equal(t, 2, content.TopWords[0].Count)

	// Событие опубликовано.
	require.Len(t, f.publisher.events, 1)
	require.Equal(t, report.ID, f.publisher.events[0].ReportID)
	require.False(t, f.publisher.events[0].Plagiarism)
}

func TestReportService_CreateReport_DetectsEarlierIdenticalSubmission(t *testing.T) {
	f := newReportFixture()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	f.files.addFile(fileA, "same-digest", []byte("one two"))
	f.files.addFile(fileB, "same-digest", []byte("one two"))

	_, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, base))
	require.NoError(t, err)

	report, err := f.svc.CreateReport(context.Background(), reportRequest(workB, "student-2", fileB, base.Add(time.Hour)))
	require.NoError(t, err)

	require.True(t, report.Plagiarism)
	require.NotNil(t, report.PlagiarismReason)
	require.Equal(t, models.PlagiarismReasonText, *report.PlagiarismReason)
	require.Equal(t, workA, *report.PlagiarizedFromWorkID)
	require.Equal(t, "student-1", *report.PlagiarizedFromStudentID)
}

func TestReportService_CreateReport_SameStudentResubmitIsClean(t *testing.T) {
	f := newReportFixture()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	f.files.addFile(fileA, "same-digest", []byte("one two"))
	f.files.addFile(fileB, "same-digest", []byte("one two"))

	_, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, base))
	require.NoError(t, err)

	// Тот же студент сдаёт тот же текст позже — это не плагиат.
	report, err := f.svc.CreateReport(context.Background(), reportRequest(workB, "student-1", fileB, base.Add(time.Hour)))
	require.NoError(t, err)
	require.False(t, report.Plagiarism)
}

func TestReportService_CreateReport_RetryCreatesNewReportAndOneSubmission(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("text"))
	submittedAt := time.Now()

	first, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, submittedAt))
	require.NoError(t, err)

	second, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, submittedAt))
	require.NoError(t, err)

	// Два отчёта, но ровно одна логическая сдача.
	require.NotEqual(t, first.ID, second.ID)
	require.Len(t, f.reports.reports, 2)
	require.Len(t, f.submissions.submissions, 1)
}

func TestReportService_CreateReport_RetryRecomputesVerdict(t *testing.T) {
	f := newReportFixture()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	f.files.addFile(fileA, "same-digest", []byte("one two"))
	f.files.addFile(fileB, "same-digest", []byte("one two"))

	// Более поздняя работа анализируется ПЕРВОЙ: ранней сдачи ещё нет
	// в зеркале, вердикт чистый.
	first, err := f.svc.CreateReport(context.Background(), reportRequest(workB, "student-2", fileB, base.Add(time.Hour)))
	require.NoError(t, err)
	require.False(t, first.Plagiarism)

	_, err = f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, base))
	require.NoError(t, err)

	// Повторный анализ видит появившуюся раннюю сдачу.
	second, err := f.svc.CreateReport(context.Background(), reportRequest(workB, "student-2", fileB, base.Add(time.Hour)))
	require.NoError(t, err)
	require.True(t, second.Plagiarism)
	require.Equal(t, workA, *second.PlagiarizedFromWorkID)
}

func TestReportService_CreateReport_DegradedWhenContentUnavailable(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("text"))
	f.files.downloadErr = fmt.Errorf("%w: connection refused", integration.ErrUnavailable)

	report, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusCompleted.String(), report.Status)

	raw, err := f.artifacts.Get(context.Background(), report.ArtifactPath)
	require.NoError(t, err)

	var content models.ReportContent
	require.NoError(t, json.Unmarshal(raw, &content))
	require.Equal(t, models.WarnFileServiceUnavailable, content.Stats.Warning)
	require.Zero(t, content.Stats.Words)
	require.Empty(t, content.TopWords)
}

func TestReportService_CreateReport_InvalidUTF8IsDecodedBySubstitution(t *testing.T) {
	f := newReportFixture()
	content := append([]byte("alpha beta alpha "), 0xff, 0xfe)
	f.files.addFile(fileA, "digest-1", content)

	report, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)

	raw, err := f.artifacts.Get(context.Background(), report.ArtifactPath)
	require.NoError(t, err)

	// Битые байты не роняют анализ: статистика считается по тому,
	// что декодировалось.
	var got models.ReportContent
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Empty(t, got.Stats.Warning)
	require.Equal(t, int64(len(content)), got.Stats.Bytes)
	require.Equal(t, 3, got.Stats.Words)
	require.Equal(t, "alpha", got.TopWords[0].Word)
	require.Equal(t, 2, got.TopWords[0].Count)
}

func TestReportService_CreateReport_DegradedWhenContentGone(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("text"))
	f.files.downloadErr = fmt.Errorf("%w: %s", integration.ErrFileGone, fileA)

	report, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)

	raw, err := f.artifacts.Get(context.Background(), report.ArtifactPath)
	require.NoError(t, err)

	// Файл не скачался по причине, отличной от недоступности сервиса.
	var got models.ReportContent
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, models.WarnFailedToParseText, got.Stats.Warning)
	require.Zero(t, got.Stats.Words)
}

func TestReportService_CreateReport_MetaFailureIsFatal(t *testing.T) {
	f := newReportFixture()
	f.files.metaErr = fmt.Errorf("%w: connection refused", integration.ErrUnavailable)

	_, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.ErrorIs(t, err, ErrFileServiceUnavailable)
	require.Empty(t, f.reports.reports)
	require.Empty(t, f.artifacts.objects)
	require.Empty(t, f.publisher.events)
}

func TestReportService_CreateReport_UnknownFile(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.ErrorIs(t, err, ErrFileNotFound)
	require.Empty(t, f.reports.reports)
}

func TestReportService_CreateReport_ArtifactWriteFailureLeavesNoRow(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("text"))
	f.artifacts.putErr = fmt.Errorf("minio down")

	_, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.Error(t, err)
	require.Empty(t, f.reports.reports)
	require.Empty(t, f.publisher.events)
}

func TestReportService_CreateReport_Validation(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.CreateReport(context.Background(), &models.CreateReportRequest{
		WorkID:      "not-a-uuid",
		StudentID:   "student-1",
		SubmittedAt: time.Now(),
		FileID:      fileA,
	})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestReportService_ListReports_NewestFirst(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("text"))

	first, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)
	second, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)

	summaries, err := f.svc.ListReports(context.Background(), workA)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, second.ID, summaries[0].ID)
	require.Equal(t, first.ID, summaries[1].ID)
}

func TestReportService_GetReportContent(t *testing.T) {
	f := newReportFixture()
	f.files.addFile(fileA, "digest-1", []byte("text"))

	report, err := f.svc.CreateReport(context.Background(), reportRequest(workA, "student-1", fileA, time.Now()))
	require.NoError(t, err)

	content, err := f.svc.GetReportContent(context.Background(), report.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, content.ReportID)
	require.Equal(t, workA, content.WorkID)

	// Неизвестный отчёт.
	_, err = f.svc.GetReportContent(context.Background(), workB)
	require.ErrorIs(t, err, ErrReportNotFound)

	// Строка есть, артефакт пропал.
	delete(f.artifacts.objects, report.ArtifactPath)
	_, err = f.svc.GetReportContent(context.Background(), report.ID)
	require.ErrorIs(t, err, ErrArtifactMissing)
}
