package service

import (
	"context"
	"errors"
	"math"
	"time"

	"storyhub/internal/apperr"
	"storyhub/internal/lock"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/shared"
)

// ProgressFields is a partial update: nil fields are left untouched.
type ProgressFields struct {
	LastParagraph        *int
	TotalParagraphs      *int
	CompletionPercentage *float64
	ReadingTimeSeconds   *int64
	WordsRead            *int64
	Language             *shared.Language
	Status               *shared.ProgressStatus
}

// Validate checks ranges before anything is written.
func (f ProgressFields) Validate() error {
	if f.LastParagraph != nil && *f.LastParagraph < 0 {
		return apperr.Validation("last_paragraph must be non-negative")
	}
	if f.TotalParagraphs != nil && *f.TotalParagraphs < 0 {
		return apperr.Validation("total_paragraphs must be non-negative")
	}
	if f.CompletionPercentage != nil {
		p := *f.CompletionPercentage
		if math.IsNaN(p) || p < 0 || p > 100 {
			return apperr.Validation("completion_percentage must be between 0 and 100")
		}
	}
	if f.ReadingTimeSeconds != nil && *f.ReadingTimeSeconds < 0 {
		return apperr.Validation("reading_time_seconds must be non-negative")
	}
	if f.WordsRead != nil && *f.WordsRead < 0 {
		return apperr.Validation("words_read must be non-negative")
	}
	if f.Language != nil && !f.Language.Valid() {
		return apperr.Validation("unsupported language %q", *f.Language)
	}
	if f.Status != nil && *f.Status != shared.StatusStarted && *f.Status != shared.StatusCompleted {
		return apperr.Validation("status must be STARTED or COMPLETED")
	}
	return nil
}

// apply writes the supplied fields onto p and runs the status transition.
//
//	nil status       keeps the current status (COMPLETED stays COMPLETED)
//	STARTED          (re)opens the record and clears completed_at
//	COMPLETED        forces 100% and stamps completed_at = now
func (f ProgressFields) apply(p *models.ReadingProgress, now time.Time) {
	if f.LastParagraph != nil {
		p.LastParagraph = *f.LastParagraph
	}
	if f.TotalParagraphs != nil {
		total := *f.TotalParagraphs
		p.TotalParagraphs = &total
	}
	if f.CompletionPercentage != nil {
		p.CompletionPercentage = *f.CompletionPercentage
	}
	if f.ReadingTimeSeconds != nil {
		p.ReadingTimeSeconds = *f.ReadingTimeSeconds
	}
	if f.WordsRead != nil {
		p.WordsRead = *f.WordsRead
	}
	if f.Language != nil {
		p.Language = *f.Language
	}

	if f.Status != nil {
		switch *f.Status {
		case shared.StatusCompleted:
			p.Status = shared.StatusCompleted
			completed := now
			p.CompletedAt = &completed
		case shared.StatusStarted:
			p.Status = shared.StatusStarted
			p.CompletedAt = nil
		}
	}
	if p.Status == shared.StatusCompleted {
		p.CompletionPercentage = 100
		if p.CompletedAt == nil {
			completed := now
			p.CompletedAt = &completed
		}
	}
	p.LastReadAt = now
}

type ProgressService interface {
	RecordProgress(ctx context.Context, userID, storyID string, fields ProgressFields) (*models.ReadingProgress, error)
	GetProgress(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error)
	ListProgress(ctx context.Context, userID string, status *shared.ProgressStatus) ([]models.ReadingProgress, error)
	ListCompleted(ctx context.Context, userID string) ([]models.ReadingProgress, error)
	DeleteProgress(ctx context.Context, userID, storyID string) error
}

type progressService struct {
	repo    repository.ProgressRepository
	stories repository.StoryRepository
	locker  lock.Locker
	log     *logger.Logger
	now     func() time.Time
}

func NewProgressService(repo repository.ProgressRepository, stories repository.StoryRepository, locker lock.Locker, log *logger.Logger) ProgressService {
	return &progressService{
		repo:    repo,
		stories: stories,
		locker:  locker,
		log:     log.With("service", "ProgressService"),
		now:     time.Now,
	}
}

// RecordProgress upserts the (user, story) record with partial-update semantics.
// Writes to the same pair are serialized so a concurrent write never
// overwrites fields it did not supply.
func (s *progressService) RecordProgress(ctx context.Context, userID, storyID string, fields ProgressFields) (*models.ReadingProgress, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if _, err := requirePublished(ctx, s.stories, storyID, ""); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "progress:"+userID+":"+storyID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.KindInternal, "request cancelled", err)
		}
		return nil, apperr.Internal("lock progress", err)
	}
	defer unlock()

	now := s.now().UTC()
	existing, err := s.repo.Get(ctx, userID, storyID)
	if err != nil {
		return nil, apperr.Internal("load progress", err)
	}

	if existing == nil {
		progress := &models.ReadingProgress{
			UserID:    userID,
			StoryID:   storyID,
			Language:  shared.DefaultLanguage,
			Status:    shared.StatusStarted,
			StartedAt: now,
		}
		fields.apply(progress, now)

		err := s.repo.Create(ctx, progress)
		if err == nil {
			s.log.Debug("progress started", "user_id", userID, "story_id", storyID, "status", progress.Status)
			return progress, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Internal("create progress", err)
		}

		// a concurrent first write won the insert; apply ours on top of it
		existing, err = s.repo.Get(ctx, userID, storyID)
		if err != nil {
			return nil, apperr.Internal("reload progress", err)
		}
		if existing == nil {
			return nil, apperr.Internal("reload progress", errors.New("record vanished after duplicate insert"))
		}
	}

	previous := existing.Status
	fields.apply(existing, now)
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, apperr.Internal("save progress", err)
	}
	if previous != existing.Status {
		s.log.Info("progress status changed", "user_id", userID, "story_id", storyID, "from", previous, "to", existing.Status)
	}
	return existing, nil
}

// GetProgress returns nil, nil when the user has not started the story.
func (s *progressService) GetProgress(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error) {
	progress, err := s.repo.Get(ctx, userID, storyID)
	if err != nil {
		return nil, apperr.Internal("get progress", err)
	}
	return progress, nil
}

func (s *progressService) ListProgress(ctx context.Context, userID string, status *shared.ProgressStatus) ([]models.ReadingProgress, error) {
	if status != nil && *status != shared.StatusStarted && *status != shared.StatusCompleted {
		return nil, apperr.Validation("status must be STARTED or COMPLETED")
	}
	list, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, apperr.Internal("list progress", err)
	}
	return list, nil
}

func (s *progressService) ListCompleted(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	list, err := s.repo.ListCompleted(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list completed progress", err)
	}
	return list, nil
}

func (s *progressService) DeleteProgress(ctx context.Context, userID, storyID string) error {
	if err := s.repo.Delete(ctx, userID, storyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("progress not found")
		}
		return apperr.Internal("delete progress", err)
	}
	s.log.Debug("progress deleted", "user_id", userID, "story_id", storyID)
	return nil
}
