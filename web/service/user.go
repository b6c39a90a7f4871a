package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/util/crypto"
	"github.com/ortosupport/course-assistant/util/metrics"

	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by CheckUser for unknown usernames and
// wrong passwords alike.
var ErrInvalidCredentials = &common.AppError{Kind: common.KindUnauthenticated, Msg: "invalid username or password"}

// ErrAuthUnavailable is returned when credentials cannot be verified at all.
var ErrAuthUnavailable = &common.AppError{Kind: common.KindUnavailable, Msg: "authentication unavailable"}

// NewUser holds the fields of an account to create.
type NewUser struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
}

// UserService is the credential store.
type UserService struct {
	db            *gorm.DB
	checkPassword func(credential, password string) (bool, error)
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, checkPassword: crypto.CheckPasswordHash}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).First(user, id).Error
	if database.IsNotFound(err) {
		return nil, common.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, common.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser hashes the password and stores the account. An empty role
// means RoleUser. Taken usernames fail with common.ErrUsernameTaken.
func (s *UserService) CreateUser(ctx context.Context, nu NewUser) (*model.User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	if nu.Username == "" || nu.Password == "" {
		return nil, common.Wrap(common.KindValidation, "username and password are required", nil)
	}
	if nu.Role == "" {
		nu.Role = model.RoleUser
	}
	if !model.ValidRole(nu.Role) {
		return nil, common.Wrap(common.KindValidation, fmt.Sprintf("unknown role %q", nu.Role), nil)
	}

	if _, err := s.GetByUsername(ctx, nu.Username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !common.IsKind(err, common.KindNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(nu.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: nu.Username,
		Password: hash,
		Name:     nu.Name,
		Email:    nu.Email,
		Role:     nu.Role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.ErrUsernameTaken
		}
		return nil, err
	}
	logger.Infof("created %s account %q (id %d)", user.Role, user.Username, user.Id)
	return user, nil
}

// Register creates a regular account.
func (s *UserService) Register(ctx context.Context, username, password, name, email string) (*model.User, error) {
	return s.CreateUser(ctx, NewUser{
		Username: username,
		Password: password,
		Name:     name,
		Email:    email,
		Role:     model.RoleUser,
	})
}

// CheckUser returns the user if password matches its credential.
func (s *UserService) CheckUser(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if common.IsKind(err, common.KindNotFound) {
		metrics.FailedLoginAttempts.Inc()
		return nil, ErrInvalidCredentials
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil, err
	}

	match, err := s.checkPassword(user.Password, password)
	if err != nil {
		logger.Error("verify password:", err)
		return nil, common.Wrap(common.KindUnavailable, ErrAuthUnavailable.Msg, err)
	}
	if !match {
		metrics.FailedLoginAttempts.Inc()
		logger.Noticef("failed login for %q", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes targetID on behalf of actorID. An actor can never delete
// itself; owned questions, their feedback and sessions go with the user.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID int) error {
	if actorID == targetID {
		return common.ErrSelfDelete
	}
	res := s.db.WithContext(ctx).Delete(&model.User{}, targetID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	logger.Infof("user %d deleted user %d", actorID, targetID)
	return nil
}
