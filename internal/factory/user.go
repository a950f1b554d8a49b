package factory

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/models"
)

const maxMailLength = 254

// Simplified RFC 5322 pattern, same constraint the validation layer
// enforces on inbound payloads.
var mailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// NewUser builds a user from a registration mail, normalizing and
// validating it.
func NewUser(mail string) (models.User, error) {
	normalized, err := NormalizeMail(mail)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		Mail:      normalized,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UserFromDocument reconciles a raw stored document into a User. The
// mail lived under two historical field names: mail -> email.
func UserFromDocument(id string, doc bson.M) models.User {
	mail := stringField(doc, "mail")
	if mail == "" {
		mail = stringField(doc, "email")
	}

	return models.User{
		ID:        id,
		Mail:      strings.ToLower(strings.TrimSpace(mail)),
		CreatedAt: timeField(doc, "created_at", "createdAt"),
	}
}

// NormalizeMail lower-cases, trims, and validates a mail address.
func NormalizeMail(mail string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(mail))
	if normalized == "" {
		return "", apperrors.NewValidationError("mail must not be empty")
	}
	if utf8.RuneCountInString(normalized) > maxMailLength {
		return "", apperrors.NewValidationError("mail must not exceed 254 characters")
	}
	if !mailPattern.MatchString(normalized) {
		return "", apperrors.NewValidationError("mail format is invalid")
	}
	return normalized, nil
}
