package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"
	"school_exam_backend/pkg/monitoring"
	"school_exam_backend/pkg/pdf"
	"school_exam_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	kindSpeech      = "speech"
	kindPersonality = "personality"
)

type ReportService struct {
	Repo       *repository.ReportRepository
	UserRepo   *repository.UserRepository
	SchoolRepo *repository.SchoolRepository
	TextGen    *TextGenService
	Storage    *StorageService
	Lock       GenerationLock
	Mailer     Mailer
}

func NewReportService(
	repo *repository.ReportRepository,
	userRepo *repository.UserRepository,
	schoolRepo *repository.SchoolRepository,
	textGen *TextGenService,
	storage *StorageService,
	lock GenerationLock,
	mailer Mailer,
) *ReportService {
	return &ReportService{
		Repo:       repo,
		UserRepo:   userRepo,
		SchoolRepo: schoolRepo,
		TextGen:    textGen,
		Storage:    storage,
		Lock:       lock,
		Mailer:     mailer,
	}
}

type CreateSpeechReportRequest struct {
	Student uint `json:"student" binding:"required"`
	// ReportDate is DD-MM-YYYY; today when empty.
	ReportDate string `json:"reportDate"`
	model.SpeechAxes
	OverallComments string `json:"overallComments"`
}

type CreatePersonalityReportRequest struct {
	Student uint `json:"student" binding:"required"`
	model.PersonalityTraits
	Gender     string  `json:"gender" binding:"required"`
	Age        string  `json:"age" binding:"required"`
	Center     string  `json:"center" binding:"required"`
	ExternalID *string `json:"externalId"`
}

type GenerateResult struct {
	ReportURL        string `json:"reportUrl"`
	AlreadyGenerated bool   `json:"alreadyGenerated"`
}

// staffSchool returns the school of a teacher or school admin.
func staffSchool(a model.Account) (uint, error) {
	switch acc := a.(type) {
	case model.Teacher:
		return acc.SchoolID, nil
	case model.SchoolAdmin:
		return acc.SchoolID, nil
	}
	return 0, util.NewForbiddenError("Only school staff can manage reports")
}

// student loads a student of the given school. Students of other schools
// are reported as missing.
func (s *ReportService) student(ctx context.Context, schoolID, studentID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrUserNotFound, "Student not found")
	}
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleStudent || user.SchoolID == nil || *user.SchoolID != schoolID {
		return nil, util.NewNotFoundError(util.ErrUserNotFound, "Student not found")
	}
	return user, nil
}

func (s *ReportService) subject(ctx context.Context, studentID uint, gender string) ReportSubject {
	who := ReportSubject{Gender: gender}
	user, err := s.UserRepo.FindByID(ctx, studentID)
	if err != nil {
		logger.Log.Warn("report student lookup failed", zap.Uint("student_id", studentID), zap.Error(err))
		return who
	}
	who.Name, who.Class = user.Name, user.ClassName
	if user.SchoolID != nil {
		if school, err := s.SchoolRepo.FindByID(ctx, *user.SchoolID); err == nil {
			who.School = school.Name
		}
	}
	return who
}

func (s *ReportService) CreateSpeech(ctx context.Context, staff model.Account, req CreateSpeechReportRequest) (*model.SpeechReport, error) {
	schoolID, err := staffSchool(staff)
	if err != nil {
		return nil, err
	}
	if err := req.SpeechAxes.Validate(); err != nil {
		return nil, util.NewValidationError("%s", strings.TrimPrefix(err.Error(), model.ErrInvalidReport.Error()+": "))
	}

	reportDate := time.Now().UTC()
	if req.ReportDate != "" {
		d, ok := util.ParseExamDate(req.ReportDate)
		if !ok {
			return nil, util.NewValidationError("reportDate must be in DD-MM-YYYY format")
		}
		reportDate = d
	}

	if _, err := s.student(ctx, schoolID, req.Student); err != nil {
		return nil, err
	}

	report := &model.SpeechReport{
		SchoolID:        schoolID,
		StudentID:       req.Student,
		CreatedByID:     staff.Who().UserID,
		ReportDate:      reportDate,
		SpeechAxes:      req.SpeechAxes,
		OverallComments: strings.TrimSpace(req.OverallComments),
	}
	if err := s.Repo.CreateSpeech(ctx, report); err != nil {
		return nil, err
	}
	logger.Log.Info("speech report created", zap.Uint("report_id", report.ID), zap.Uint("student_id", report.StudentID))
	return report, nil
}

func (s *ReportService) ListSpeech(ctx context.Context, staff model.Account, studentID uint) ([]model.SpeechReport, error) {
	schoolID, err := staffSchool(staff)
	if err != nil {
		return nil, err
	}
	if _, err := s.student(ctx, schoolID, studentID); err != nil {
		return nil, err
	}
	return s.Repo.ListSpeechByStudent(ctx, studentID)
}

func (s *ReportService) CreatePersonality(ctx context.Context, staff model.Account, req CreatePersonalityReportRequest) (*model.PersonalityReport, error) {
	schoolID, err := staffSchool(staff)
	if err != nil {
		return nil, err
	}
	for _, t := range req.PersonalityTraits.Entries() {
		if strings.TrimSpace(t.Level) == "" {
			return nil, util.NewValidationError("%s is required", t.Key)
		}
	}
	if _, err := s.student(ctx, schoolID, req.Student); err != nil {
		return nil, err
	}

	var externalID *string
	if req.ExternalID != nil && strings.TrimSpace(*req.ExternalID) != "" {
		id := strings.TrimSpace(*req.ExternalID)
		exists, err := s.Repo.ExternalIDExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, util.NewConflictError(nil, "A personality report with externalId %s already exists", id)
		}
		externalID = &id
	}

	report := &model.PersonalityReport{
		SchoolID:          schoolID,
		StudentID:         req.Student,
		CreatedByID:       staff.Who().UserID,
		PersonalityTraits: req.PersonalityTraits,
		Gender:            strings.TrimSpace(req.Gender),
		Age:               strings.TrimSpace(req.Age),
		Center:            strings.TrimSpace(req.Center),
		ExternalID:        externalID,
	}
	if err := s.Repo.CreatePersonality(ctx, report); err != nil {
		return nil, err
	}
	logger.Log.Info("personality report created", zap.Uint("report_id", report.ID), zap.Uint("student_id", report.StudentID))
	return report, nil
}

func (s *ReportService) ListPersonality(ctx context.Context, staff model.Account, studentID uint) ([]model.PersonalityReport, error) {
	schoolID, err := staffSchool(staff)
	if err != nil {
		return nil, err
	}
	if _, err := s.student(ctx, schoolID, studentID); err != nil {
		return nil, err
	}
	return s.Repo.ListPersonalityByStudent(ctx, studentID)
}

func (s *ReportService) speechReport(ctx context.Context, staff model.Account, id uint) (*model.SpeechReport, error) {
	schoolID, err := staffSchool(staff)
	if err != nil {
		return nil, err
	}
	report, err := s.Repo.FindSpeech(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrReportNotFound, "Speech report not found")
	}
	if err != nil {
		return nil, err
	}
	if report.SchoolID != schoolID {
		return nil, util.NewForbiddenError("You are not allowed to access this report")
	}
	return report, nil
}

func (s *ReportService) personalityReport(ctx context.Context, staff model.Account, id uint) (*model.PersonalityReport, error) {
	schoolID, err := staffSchool(staff)
	if err != nil {
		return nil, err
	}
	report, err := s.Repo.FindPersonality(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrReportNotFound, "Personality report not found")
	}
	if err != nil {
		return nil, err
	}
	if report.SchoolID != schoolID {
		return nil, util.NewForbiddenError("You are not allowed to access this report")
	}
	return report, nil
}

// generationJob describes one report kind to the shared generation flow.
type generationJob struct {
	kind   string
	label  string
	id     uint
	table  interface{}
	status model.ReportStatus
	// reload re-reads the stored status
	reload func(ctx context.Context) (model.ReportStatus, error)
	// build asks the model for content and renders the PDF
	build func(ctx context.Context) (data []byte, studentName string, repaired bool, err error)
}

// GenerateSpeech produces the speech report PDF once. Later calls return the
// stored artifact without calling the text generation service.
func (s *ReportService) GenerateSpeech(ctx context.Context, staff model.Account, id uint, origin string) (*GenerateResult, error) {
	report, err := s.speechReport(ctx, staff, id)
	if err != nil {
		return nil, err
	}

	return s.generate(ctx, generationJob{
		kind:   kindSpeech,
		label:  "Speech",
		id:     report.ID,
		table:  &model.SpeechReport{},
		status: report.ReportStatus,
		reload: func(ctx context.Context) (model.ReportStatus, error) {
			r, err := s.Repo.FindSpeech(ctx, id)
			if err != nil {
				return model.ReportStatus{}, err
			}
			return r.ReportStatus, nil
		},
		build: func(ctx context.Context) ([]byte, string, bool, error) {
			who := s.subject(ctx, report.StudentID, "")
			raw, err := s.TextGen.Complete(ctx, speechPrompt(who, &report.SpeechAxes))
			if err != nil {
				return nil, who.Name, false, err
			}
			content, repaired, err := parseGenerated[SpeechContent](raw)
			if err != nil {
				return nil, who.Name, repaired, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
			}
			data, err := pdf.RenderReport(speechDocument(who, report, content))
			return data, who.Name, repaired, err
		},
	}, origin)
}

// GeneratePersonality is GenerateSpeech for personality reports.
func (s *ReportService) GeneratePersonality(ctx context.Context, staff model.Account, id uint, origin string) (*GenerateResult, error) {
	report, err := s.personalityReport(ctx, staff, id)
	if err != nil {
		return nil, err
	}

	return s.generate(ctx, generationJob{
		kind:   kindPersonality,
		label:  "Personality",
		id:     report.ID,
		table:  &model.PersonalityReport{},
		status: report.ReportStatus,
		reload: func(ctx context.Context) (model.ReportStatus, error) {
			r, err := s.Repo.FindPersonality(ctx, id)
			if err != nil {
				return model.ReportStatus{}, err
			}
			return r.ReportStatus, nil
		},
		build: func(ctx context.Context) ([]byte, string, bool, error) {
			who := s.subject(ctx, report.StudentID, report.Gender)
			raw, err := s.TextGen.Complete(ctx, personalityPrompt(who, &report.PersonalityTraits))
			if err != nil {
				return nil, who.Name, false, err
			}
			content, repaired, err := parseGenerated[PersonalityContent](raw)
			if err != nil {
				return nil, who.Name, repaired, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
			}
			data, err := pdf.RenderReport(personalityDocument(who, report, content))
			return data, who.Name, repaired, err
		},
	}, origin)
}

func (s *ReportService) existing(job generationJob, status model.ReportStatus, origin string) *GenerateResult {
	monitoring.ReportsGenerated.WithLabelValues(job.kind, "existing").Inc()
	return &GenerateResult{ReportURL: s.Storage.PublicURL(origin, status.ReportURL), AlreadyGenerated: true}
}

func (s *ReportService) generate(ctx context.Context, job generationJob, origin string) (result *GenerateResult, err error) {
	if job.status.ReportGenerated {
		return s.existing(job, job.status, origin), nil
	}

	ctx, span := tracing.Tracer.Start(ctx, "report.generate")
	span.SetAttributes(attribute.String("report.kind", job.kind), attribute.Int64("report.id", int64(job.id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	release, ok, err := s.Lock.TryLock(ctx, fmt.Sprintf("report:generate:%s:%d", job.kind, job.id), generationLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	if !ok {
		return nil, util.NewConflictError(nil, "Report generation is already in progress")
	}
	defer release()

	// another request may have finished between the first check and the lock
	status, err := job.reload(ctx)
	if err != nil {
		return nil, err
	}
	if status.ReportGenerated {
		return s.existing(job, status, origin), nil
	}

	data, studentName, repaired, err := job.build(ctx)
	if err != nil {
		monitoring.ReportsGenerated.WithLabelValues(job.kind, "failed").Inc()
		if errors.Is(err, util.ErrGenerationFailed) {
			return nil, util.NewUpstreamError(err)
		}
		return nil, err
	}

	name := fileSafe(studentName)
	if name == "" {
		name = "student"
	}
	key := fmt.Sprintf("%s/%s_%s_%d.pdf", util.ReportsDir, name, job.label, time.Now().UnixMilli())
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), util.MimePDF)
	if err != nil {
		monitoring.ReportsGenerated.WithLabelValues(job.kind, "failed").Inc()
		return nil, util.NewUpstreamError(fmt.Errorf("upload %s: %w", key, err))
	}

	won, err := s.Repo.MarkGenerated(ctx, job.table, job.id, url, key)
	if err != nil || !won {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("failed to remove unused report artifact", zap.String("key", key), zap.Error(delErr))
		}
	}
	if err != nil {
		return nil, err
	}
	if !won {
		status, err := job.reload(ctx)
		if err != nil {
			return nil, err
		}
		return s.existing(job, status, origin), nil
	}

	outcome := "generated"
	if repaired {
		outcome = "repaired"
	}
	monitoring.ReportsGenerated.WithLabelValues(job.kind, outcome).Inc()
	logger.Log.Info("report generated",
		zap.String("kind", job.kind),
		zap.Uint("report_id", job.id),
		zap.String("key", key),
		zap.Bool("repaired", repaired))
	return &GenerateResult{ReportURL: s.Storage.PublicURL(origin, url)}, nil
}

// SendSpeech emails the generated report link to the student.
func (s *ReportService) SendSpeech(ctx context.Context, staff model.Account, id uint, origin string) error {
	report, err := s.speechReport(ctx, staff, id)
	if err != nil {
		return err
	}
	if err := s.send(ctx, report.StudentID, "Speech", report.ReportStatus, origin); err != nil {
		return err
	}
	return s.Repo.MarkSent(ctx, &model.SpeechReport{}, report.ID)
}

func (s *ReportService) SendPersonality(ctx context.Context, staff model.Account, id uint, origin string) error {
	report, err := s.personalityReport(ctx, staff, id)
	if err != nil {
		return err
	}
	if err := s.send(ctx, report.StudentID, "Personality", report.ReportStatus, origin); err != nil {
		return err
	}
	return s.Repo.MarkSent(ctx, &model.PersonalityReport{}, report.ID)
}

func (s *ReportService) send(ctx context.Context, studentID uint, label string, status model.ReportStatus, origin string) error {
	if !status.ReportGenerated {
		return util.NewValidationError("Report has not been generated yet")
	}
	student, err := s.UserRepo.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(student.Email) == "" {
		return util.NewValidationError("Student %s has no email address", student.Name)
	}

	link := s.Storage.PublicURL(origin, status.ReportURL)
	subject := fmt.Sprintf("%s assessment report for %s", label, student.Name)
	text := fmt.Sprintf("Dear %s,\n\nYour %s assessment report is ready: %s\n", student.Name, strings.ToLower(label), link)
	html := fmt.Sprintf(`<p>Dear %s,</p><p>Your %s assessment report is ready: <a href="%s">download</a>.</p>`,
		student.Name, strings.ToLower(label), link)

	if err := s.Mailer.Send(ctx, student.Name, student.Email, subject, text, html); err != nil {
		return util.NewUpstreamError(fmt.Errorf("send report mail: %w", err))
	}
	logger.Log.Info("report sent", zap.Uint("student_id", studentID), zap.String("kind", strings.ToLower(label)))
	return nil
}
