package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pandenic/media-review-board/internal/access"
	"github.com/pandenic/media-review-board/internal/metrics"
	"github.com/pandenic/media-review-board/internal/models"
	repo "github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/validate"
)

type ReviewInput struct {
	Text  *string `json:"text" validate:"omitempty,max=255"`
	Score *int    `json:"score"`
}

type CommentInput struct {
	Text *string `json:"text" validate:"omitempty,max=255"`
}

// ScoreBounds is the inclusive range a review score must fall in.
type ScoreBounds struct {
	Min, Max int
}

// ReviewService manages reviews of a title and the comments under them.
type ReviewService struct {
	titles   repo.Titles
	reviews  repo.Reviews
	comments repo.Comments
	bounds   ScoreBounds
}

func NewReviewService(r repo.Repositories, bounds ScoreBounds) *ReviewService {
	return &ReviewService{
		titles:   r.Titles,
		reviews:  r.Reviews,
		comments: r.Comments,
		bounds:   bounds,
	}
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID int64, p repo.Page) ([]models.Review, int, error) {
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.List(ctx, titleID, p)
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, id int64) (models.Review, error) {
	return s.reviews.Get(ctx, titleID, id)
}

// CreateReview posts the caller's review of a title. A user may review a
// title once.
func (s *ReviewService) CreateReview(ctx context.Context, p access.Principal, titleID int64, in ReviewInput) (models.Review, error) {
	if !p.Authenticated {
		return models.Review{}, ErrForbidden
	}
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		return models.Review{}, err
	}
	errs, err := s.checkReview(in, true)
	if err != nil {
		return models.Review{}, err
	}
	if len(errs) > 0 {
		return models.Review{}, errs
	}
	dup, err := s.reviews.Exists(ctx, titleID, p.UserID)
	if err != nil {
		return models.Review{}, err
	}
	if dup {
		return models.Review{}, validate.Field("review", MsgOneReview)
	}
	rv, err := s.reviews.Create(ctx, models.Review{
		TitleID:  titleID,
		AuthorID: p.UserID,
		Text:     *in.Text,
		Score:    *in.Score,
	})
	if repo.IsConflictOn(err, repo.ConstraintUniqueReview) {
		return models.Review{}, validate.Field("review", MsgOneReview)
	}
	if err != nil {
		return models.Review{}, err
	}
	metrics.ReviewsCreated.Inc()
	return rv, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, p access.Principal, titleID, id int64, in ReviewInput) (models.Review, error) {
	rv, err := s.reviews.Get(ctx, titleID, id)
	if err != nil {
		return models.Review{}, err
	}
	if !access.CanModifyAuthored(p, http.MethodPatch, rv.AuthorID) {
		return models.Review{}, ErrForbidden
	}
	errs, err := s.checkReview(in, false)
	if err != nil {
		return models.Review{}, err
	}
	if len(errs) > 0 {
		return models.Review{}, errs
	}
	if in.Text != nil {
		rv.Text = *in.Text
	}
	if in.Score != nil {
		rv.Score = *in.Score
	}
	return s.reviews.Update(ctx, rv)
}

func (s *ReviewService) DeleteReview(ctx context.Context, p access.Principal, titleID, id int64) error {
	rv, err := s.reviews.Get(ctx, titleID, id)
	if err != nil {
		return err
	}
	if !access.CanModifyAuthored(p, http.MethodDelete, rv.AuthorID) {
		return ErrForbidden
	}
	return s.reviews.Delete(ctx, titleID, id)
}

func (s *ReviewService) checkReview(in ReviewInput, create bool) (validate.Errs, error) {
	errs, err := checkStruct(in)
	if err != nil {
		return nil, err
	}
	errs = checkText(errs, in.Text, create)
	switch {
	case in.Score == nil:
		if create {
			errs = add(errs, "score", MsgRequired)
		}
	case *in.Score < s.bounds.Min || *in.Score > s.bounds.Max:
		errs = add(errs, "score", fmt.Sprintf("must be between %d and %d", s.bounds.Min, s.bounds.Max))
	}
	return errs, nil
}

func checkText(errs validate.Errs, text *string, create bool) validate.Errs {
	if text == nil {
		if create {
			errs = add(errs, "text", MsgRequired)
		}
		return errs
	}
	if strings.TrimSpace(*text) == "" {
		errs = add(errs, "text", MsgRequired)
	}
	return errs
}

// review resolves a review through the title in the path.
func (s *ReviewService) review(ctx context.Context, titleID, reviewID int64) (models.Review, error) {
	return s.reviews.Get(ctx, titleID, reviewID)
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, p repo.Page) ([]models.Comment, int, error) {
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.List(ctx, reviewID, p)
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, id int64) (models.Comment, error) {
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return models.Comment{}, err
	}
	return s.comments.Get(ctx, reviewID, id)
}

func (s *ReviewService) CreateComment(ctx context.Context, p access.Principal, titleID, reviewID int64, in CommentInput) (models.Comment, error) {
	if !p.Authenticated {
		return models.Comment{}, ErrForbidden
	}
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return models.Comment{}, err
	}
	errs, err := checkStruct(in)
	if err != nil {
		return models.Comment{}, err
	}
	if errs = checkText(errs, in.Text, true); len(errs) > 0 {
		return models.Comment{}, errs
	}
	c, err := s.comments.Create(ctx, models.Comment{
		ReviewID: reviewID,
		AuthorID: p.UserID,
		Text:     *in.Text,
	})
	if err != nil {
		return models.Comment{}, err
	}
	metrics.CommentsCreated.Inc()
	return c, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, p access.Principal, titleID, reviewID, id int64, in CommentInput) (models.Comment, error) {
	c, err := s.GetComment(ctx, titleID, reviewID, id)
	if err != nil {
		return models.Comment{}, err
	}
	if !access.CanModifyAuthored(p, http.MethodPatch, c.AuthorID) {
		return models.Comment{}, ErrForbidden
	}
	errs, err := checkStruct(in)
	if err != nil {
		return models.Comment{}, err
	}
	if errs = checkText(errs, in.Text, false); len(errs) > 0 {
		return models.Comment{}, errs
	}
	if in.Text != nil {
		c.Text = *in.Text
	}
	return s.comments.Update(ctx, c)
}

func (s *ReviewService) DeleteComment(ctx context.Context, p access.Principal, titleID, reviewID, id int64) error {
	c, err := s.GetComment(ctx, titleID, reviewID, id)
	if err != nil {
		return err
	}
	if !access.CanModifyAuthored(p, http.MethodDelete, c.AuthorID) {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, reviewID, id)
}
