// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, the current-user lookup and
// the administrator's account management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/auth"
	"github.com/dmitrijs2005/profilehub/internal/server/models"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

// TokenIssuer mints signed bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(claims auth.Claims) (string, error)
}

var (
	upperCaseRe   = regexp.MustCompile(`[A-Z]`)
	specialCharRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// passwordRules apply to every password a user or an administrator sets.
// bcrypt caps passwords at 72 bytes.
func passwordRules(presence validation.Rule) []validation.Rule {
	return []validation.Rule{
		presence,
		validation.Length(6, 72),
		validation.Match(upperCaseRe).Error("must contain an upper-case letter"),
		validation.Match(specialCharRe).Error("must contain a special character"),
	}
}

// RegisterInput is the registration form.
type RegisterInput struct {
	UserName        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the form. Passwords need at least six characters, one
// upper-case letter and one special character.
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserName, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Password, passwordRules(validation.Required)...),
		validation.Field(&r.ConfirmPassword,
			validation.Required,
			validation.By(stringEquals(r.Password)),
		),
	)
}

func stringEquals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("passwords do not match")
		}
		return nil
	}
}

// UpdateUserInput is an administrator's edit of an account. Nil fields are
// left as they are.
type UpdateUserInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	RoleID    *string `json:"roleId"`
	Password  *string `json:"password"`
	Verified  *bool   `json:"verified"`
	Disabled  *bool   `json:"disabled"`
}

func (r UpdateUserInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty),
		validation.Field(&r.LastName, validation.NilOrNotEmpty),
		validation.Field(&r.RoleID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Password, passwordRules(validation.NilOrNotEmpty)...),
	)
}

// UserService provides account operations:
// - Register: validate and create users with the default role
// - Login: verify credentials and mint an access token
// - Me: load the account behind a verified token
// - List, Update: account management for administrators
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
	}
}

// Register creates an account with the "user" role. Taken usernames or
// emails yield common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	exists, err := s.repomanager.Users(s.db).ExistsByEmailOrUserName(ctx, in.Email, in.UserName)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		role, err := s.repomanager.Roles(tx).FindOrCreate(ctx, common.RoleUser)
		if err != nil {
			return fmt.Errorf("error resolving role: %w", err)
		}

		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			UserName:     in.UserName,
			Email:        in.Email,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			PasswordHash: digest,
			RoleID:       role.ID,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		u.RoleName = role.Name
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a bearer token with the user.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.ComparePassword(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}
	if user.Disabled {
		return "", nil, common.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(auth.Claims{UserID: user.ID, Email: user.Email, Role: user.RoleName})
	if err != nil {
		return "", nil, fmt.Errorf("error issuing token: %w", err)
	}
	return token, user, nil
}

// Me returns the account with the given ID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, common.ErrUnauthenticated
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// List returns every account, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	return users, nil
}

// Update applies an administrator's edit and returns the stored account.
// Unknown users yield common.ErrorNotFound, a taken email
// common.ErrorAlreadyExists and an unknown role a validation error.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	var digest string
	if in.Password != nil {
		if digest, err = auth.HashPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		u, err := users.GetByID(ctx, uid.String())
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Verified != nil {
			u.Verified = *in.Verified
		}
		if in.Disabled != nil {
			u.Disabled = *in.Disabled
		}
		if digest != "" {
			u.PasswordHash = digest
		}
		if in.RoleID != nil {
			role, err := s.repomanager.Roles(tx).GetByID(ctx, *in.RoleID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("%w: roleId: role does not exist", common.ErrorValidation)
				}
				return fmt.Errorf("error resolving role: %w", err)
			}
			u.RoleID, u.RoleName = role.ID, role.Name
		}

		if err := users.Update(ctx, u); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) || errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error updating user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
