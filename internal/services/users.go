package services

import (
	"context"
	"errors"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/factory"
	"github.com/fq962/atom-challenge-api/internal/models"
	"github.com/fq962/atom-challenge-api/internal/token"
)

// UserRepository is the storage surface the user service needs;
// implemented by repositories.UserRepository.
type UserRepository interface {
	FindByMail(ctx context.Context, mail string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Insert(ctx context.Context, user models.User) (models.User, error)
}

type UserService interface {
	LoginByMail(ctx context.Context, mail string) (models.User, string, error)
	LoginOrRegister(ctx context.Context, mail string) (models.User, string, bool, error)
	CurrentUser(ctx context.Context, userID string) (models.User, error)
}

type UserServiceImpl struct {
	repo   UserRepository
	tokens *token.Service
}

func NewUserService(repo UserRepository, tokens *token.Service) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, tokens: tokens}
}

// LoginByMail issues a token for an existing user; unseen mails fail
// with a not-found error.
func (s *UserServiceImpl) LoginByMail(ctx context.Context, mail string) (models.User, string, error) {
	user, err := s.repo.FindByMail(ctx, mail)
	if err != nil {
		return models.User{}, "", err
	}

	tokenString, err := s.tokens.Issue(token.Identity{UserID: user.ID, Mail: user.Mail})
	if err != nil {
		return models.User{}, "", err
	}

	return user, tokenString, nil
}

// LoginOrRegister issues a token for the mail's user, creating the
// user first if the mail is unseen. Re-registration is not a conflict;
// the existing user simply logs in again. The returned bool reports
// whether the user already existed.
func (s *UserServiceImpl) LoginOrRegister(ctx context.Context, mail string) (models.User, string, bool, error) {
	exists := true

	user, err := s.repo.FindByMail(ctx, mail)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if !errors.As(err, &notFound) {
			return models.User{}, "", false, err
		}

		fresh, err := factory.NewUser(mail)
		if err != nil {
			return models.User{}, "", false, err
		}

		user, err = s.repo.Insert(ctx, fresh)
		if err != nil {
			return models.User{}, "", false, err
		}
		exists = false
	}

	tokenString, err := s.tokens.Issue(token.Identity{UserID: user.ID, Mail: user.Mail})
	if err != nil {
		return models.User{}, "", false, err
	}

	return user, tokenString, exists, nil
}

// CurrentUser resolves the authenticated caller's stored record.
func (s *UserServiceImpl) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	return s.repo.GetByID(ctx, userID)
}
