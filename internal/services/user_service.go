package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pandenic/media-review-board/internal/auth"
	"github.com/pandenic/media-review-board/internal/config"
	"github.com/pandenic/media-review-board/internal/mail"
	"github.com/pandenic/media-review-board/internal/metrics"
	"github.com/pandenic/media-review-board/internal/models"
	repo "github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/validate"
)

const (
	confirmationSubject = "yamdb confirmation code"
	mailTimeout         = 30 * time.Second
)

// Dispatcher runs background jobs; *worker.Pool satisfies it.
type Dispatcher interface {
	Submit(f func()) bool
}

type UserService struct {
	r       repo.Users
	tokens  *auth.TokenManager
	mailer  mail.Mailer
	jobs    Dispatcher
	codeTTL time.Duration
	now     func() time.Time
}

func NewUserService(r repo.Users, tokens *auth.TokenManager, mailer mail.Mailer, jobs Dispatcher, c config.Config) *UserService {
	return &UserService{
		r:       r,
		tokens:  tokens,
		mailer:  mailer,
		jobs:    jobs,
		codeTTL: c.ConfirmationTTL,
		now:     time.Now,
	}
}

type SignupInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type TokenInput struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=150"`
}

type UserInput struct {
	Username  string      `json:"username" validate:"required,max=150,username"`
	Email     string      `json:"email" validate:"required,max=254,email"`
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name" validate:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

type UserPatch struct {
	Username  *string      `json:"username" validate:"omitempty,max=150,username"`
	Email     *string      `json:"email" validate:"omitempty,max=254,email"`
	FirstName *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string      `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// Signup registers username/email (or finds the matching existing account)
// and mails a fresh confirmation code.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	errs, err := checkStruct(in)
	if err != nil {
		return models.User{}, err
	}
	if in.Username == models.ReservedUsername {
		errs = add(errs, "username", MsgReservedUsername)
	}
	if len(errs) > 0 {
		return models.User{}, errs
	}

	byName, err := s.lookup(ctx, s.r.GetByUsername, in.Username)
	if err != nil {
		return models.User{}, err
	}
	if byName != nil && byName.Email != in.Email {
		errs = add(errs, "username", MsgUsernameTaken)
	}
	byEmail, err := s.lookup(ctx, s.r.GetByEmail, in.Email)
	if err != nil {
		return models.User{}, err
	}
	if byEmail != nil && byEmail.Username != in.Username {
		errs = add(errs, "email", MsgEmailTaken)
	}
	if len(errs) > 0 {
		return models.User{}, errs
	}

	var u models.User
	if byName != nil {
		u = *byName
	} else {
		u, err = s.r.Create(ctx, models.User{Username: in.Username, Email: in.Email, Role: models.RoleUser})
		if err != nil {
			return models.User{}, conflictErrs(err)
		}
	}

	code, err := s.newCode(ctx, u.ID)
	if err != nil {
		return models.User{}, err
	}
	s.sendCode(u, code)
	metrics.SignupsTotal.Inc()
	return u, nil
}

func (s *UserService) lookup(ctx context.Context, get func(context.Context, string) (models.User, error), key string) (*models.User, error) {
	u, err := get(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// newCode replaces the pending confirmation code of the user.
func (s *UserService) newCode(ctx context.Context, userID int64) (string, error) {
	code, err := auth.NewConfirmationCode()
	if err != nil {
		return "", fmt.Errorf("confirmation code: %w", err)
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return "", fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.r.SetConfirmation(ctx, userID, hash); err != nil {
		return "", err
	}
	return code, nil
}

// sendCode mails the code in the background; delivery is best effort.
func (s *UserService) sendCode(u models.User, code string) {
	msg := mail.Message{
		To:      u.Email,
		Subject: confirmationSubject,
		Body:    "Confirmation code: " + code,
	}
	ok := s.jobs.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, msg); err != nil {
			metrics.MailsTotal.WithLabelValues("failed").Inc()
			slog.Error("confirmation mail", "user", u.Username, "err", err)
			return
		}
		metrics.MailsTotal.WithLabelValues("sent").Inc()
	})
	if !ok {
		metrics.MailsTotal.WithLabelValues("dropped").Inc()
		slog.Warn("confirmation mail dropped, queue full", "user", u.Username)
	}
}

// IssueToken exchanges a pending confirmation code for an access token.
// The code is consumed on success.
func (s *UserService) IssueToken(ctx context.Context, in TokenInput) (string, error) {
	errs, err := checkStruct(in)
	if err != nil {
		return "", err
	}
	if len(errs) > 0 {
		return "", errs
	}
	u, err := s.r.GetByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if !auth.VerifyCode(in.ConfirmationCode, u.ConfirmationHash, u.ConfirmationSentAt, s.codeTTL, s.now()) {
		metrics.TokensIssued.WithLabelValues("invalid_code").Inc()
		return "", validate.Field("confirmation_code", MsgInvalidCode)
	}
	if err := s.r.SetConfirmation(ctx, u.ID, ""); err != nil {
		return "", err
	}
	tok, _, err := s.tokens.Generate(u.ID, string(u.Role))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	metrics.TokensIssued.WithLabelValues("ok").Inc()
	return tok, nil
}

func (s *UserService) List(ctx context.Context, search string, p repo.Page) ([]models.User, int, error) {
	return s.r.List(ctx, search, p)
}

func (s *UserService) Get(ctx context.Context, username string) (models.User, error) {
	return s.r.GetByUsername(ctx, username)
}

func (s *UserService) Me(ctx context.Context, id int64) (models.User, error) {
	return s.r.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	errs, err := checkStruct(in)
	if err != nil {
		return models.User{}, err
	}
	if in.Username == models.ReservedUsername {
		errs = add(errs, "username", MsgReservedUsername)
	}
	if len(errs) > 0 {
		return models.User{}, errs
	}
	u := models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	}
	u.Normalize()
	created, err := s.r.Create(ctx, u)
	if err != nil {
		return models.User{}, conflictErrs(err)
	}
	return created, nil
}

// Update applies an admin edit to the user with the given username.
func (s *UserService) Update(ctx context.Context, username string, patch UserPatch) (models.User, error) {
	u, err := s.r.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	return s.apply(ctx, u, patch, true)
}

// UpdateMe edits the caller's own profile; the role is never changed.
func (s *UserService) UpdateMe(ctx context.Context, id int64, patch UserPatch) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return s.apply(ctx, u, patch, false)
}

func (s *UserService) apply(ctx context.Context, u models.User, patch UserPatch, allowRole bool) (models.User, error) {
	errs, err := checkStruct(patch)
	if err != nil {
		return models.User{}, err
	}
	if patch.Username != nil && *patch.Username == models.ReservedUsername {
		errs = add(errs, "username", MsgReservedUsername)
	}
	if len(errs) > 0 {
		return models.User{}, errs
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if allowRole && patch.Role != nil {
		u.Role = *patch.Role
	}
	u.Normalize()

	updated, err := s.r.Update(ctx, u)
	if err != nil {
		return models.User{}, conflictErrs(err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	u, err := s.r.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.r.Delete(ctx, u.ID)
}

// CreateSuperuser creates an admin account with the superuser flag and
// returns a confirmation code for its first token.
func (s *UserService) CreateSuperuser(ctx context.Context, in SignupInput) (models.User, string, error) {
	errs, err := checkStruct(in)
	if err != nil {
		return models.User{}, "", err
	}
	if in.Username == models.ReservedUsername {
		errs = add(errs, "username", MsgReservedUsername)
	}
	if len(errs) > 0 {
		return models.User{}, "", errs
	}
	u, err := s.r.Create(ctx, models.User{
		Username:  in.Username,
		Email:     in.Email,
		Role:      models.RoleAdmin,
		Superuser: true,
	})
	if err != nil {
		return models.User{}, "", conflictErrs(err)
	}
	code, err := s.newCode(ctx, u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return u, code, nil
}

func conflictErrs(err error) error {
	switch {
	case repo.IsConflictOn(err, repo.ConstraintUsername):
		return validate.Field("username", MsgUsernameExists)
	case repo.IsConflictOn(err, repo.ConstraintEmail):
		return validate.Field("email", MsgEmailExists)
	}
	return err
}
