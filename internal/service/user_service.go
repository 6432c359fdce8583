package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/sirupsen/logrus"

	"backend-template/internal/auth"
	"backend-template/internal/domain"
	"backend-template/internal/repository"
)

var (
	// ErrEmailTaken is returned when registering an email that is already on file.
	ErrEmailTaken = fmt.Errorf("email already registered: %w", domain.ErrDuplicateEntity)
	// ErrPhoneTaken is returned when registering a phone number that is already on file.
	ErrPhoneTaken = fmt.Errorf("phone number already registered: %w", domain.ErrDuplicateEntity)
)

// RegisterInput is the full user record supplied at registration. Role is
// accepted for shape compatibility but never honoured.
type RegisterInput struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	PhoneNumber string      `json:"phoneNumber"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	PostalCode  string      `json:"postalCode"`
	Role        domain.Role `json:"role"`
}

func (in *RegisterInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

func (in RegisterInput) validate() error {
	return validationFailure(validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(1, 72)),
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.PhoneNumber, validation.Length(0, 20)),
		validation.Field(&in.Address, validation.Length(0, 500)),
		validation.Field(&in.City, validation.Length(0, 100)),
		validation.Field(&in.Country, validation.Length(0, 100)),
		validation.Field(&in.PostalCode, validation.Length(0, 20)),
	))
}

// ProfileInput carries the user fields that may be changed after registration.
type ProfileInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

func (in ProfileInput) validate() error {
	return validationFailure(validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Address, validation.Length(0, 500)),
		validation.Field(&in.City, validation.Length(0, 100)),
		validation.Field(&in.Country, validation.Length(0, 100)),
		validation.Field(&in.PostalCode, validation.Length(0, 20)),
	))
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error)
	Update(ctx context.Context, id string, in ProfileInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users  repository.UserRepository
	logger logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, logger logrus.FieldLogger) UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &userService{
		users:  users,
		logger: logger.WithField("component", "user_service"),
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	log := s.logger.WithField("email", in.Email)
	log.Info("registering user")

	taken, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		log.Warn("registration rejected: email already registered")
		return nil, ErrEmailTaken
	}
	if in.PhoneNumber != "" {
		taken, err := s.users.ExistsByPhoneNumber(ctx, in.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if taken {
			log.Warn("registration rejected: phone number already registered")
			return nil, ErrPhoneTaken
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	if in.Role != "" && in.Role != domain.RoleUser {
		log.WithField("requested_role", in.Role).Warn("ignoring role supplied at registration")
	}

	user := &domain.User{
		Base:          domain.Base{IsActive: true},
		Email:         in.Email,
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PhoneNumber:   in.PhoneNumber,
		Address:       in.Address,
		City:          in.City,
		Country:       in.Country,
		PostalCode:    in.PostalCode,
		Role:          domain.RoleUser,
		EmailVerified: false,
	}

	if _, err := s.users.Save(ctx, user); err != nil {
		// a concurrent registration may win the race past the pre-check
		if errors.Is(err, domain.ErrDuplicateEntity) {
			log.Warn("registration lost a uniqueness race")
			return nil, s.duplicateCause(ctx, in, err)
		}
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("user registered")
	return sanitizeUser(user), nil
}

// duplicateCause names the unique field that rejected an insert.
func (s *userService) duplicateCause(ctx context.Context, in RegisterInput, saveErr error) error {
	if taken, err := s.users.ExistsByEmail(ctx, in.Email); err == nil && taken {
		return ErrEmailTaken
	}
	if in.PhoneNumber != "" {
		if taken, err := s.users.ExistsByPhoneNumber(ctx, in.PhoneNumber); err == nil && taken {
			return ErrPhoneTaken
		}
	}
	return fmt.Errorf("register user: %w", saveErr)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.logger.WithField("user_id", id).Debug("fetching user")
	user, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.logger.WithField("email", email).Debug("fetching user by email")
	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	s.logger.Debug("listing users")
	users, err := s.users.ListActive(ctx, page)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}
	return domain.MapPage(users, sanitizeUser), nil
}

func (s *userService) Update(ctx context.Context, id string, in ProfileInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", id).Info("updating user")
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	domain.UserProfile{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Address:    in.Address,
		City:       in.City,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	}.Apply(user)

	if _, err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	s.logger.WithField("user_id", id).Info("deleting user")
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Meta().Deactivate()
	_, err = s.users.Save(ctx, user)
	return err
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
