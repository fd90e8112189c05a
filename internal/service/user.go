package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/model"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/repository"
)

// CreateOutcome tags the result of a create-if-absent call.
type CreateOutcome string

const (
	Created   CreateOutcome = "created"
	Duplicate CreateOutcome = "duplicate"
)

// UserInput is the body of POST /users. A role in the body is ignored;
// only an admin can assign one.
type UserInput struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
}

// CreateUserResult reports what a create-if-absent did.
type CreateUserResult struct {
	Outcome    CreateOutcome      `json:"outcome"`
	InsertedID primitive.ObjectID `json:"insertedId,omitempty"`
}

// UserService manages the all-users collection and resolves request
// callers to their stored role.
type UserService struct {
	users repository.Collection[model.User]
	log   *zap.Logger
}

func NewUserService(users repository.Collection[model.User], log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Create registers a user unless one with the same email exists. The
// check and the insert are two store calls, so two concurrent first
// sign-ins may both succeed; a unique index on email closes that gap in
// production.
func (s *UserService) Create(ctx context.Context, in UserInput) (CreateUserResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return CreateUserResult{}, invalid("email is required")
	}
	existing, err := s.users.FindOne(ctx, repository.ByField("email", email))
	if err != nil {
		return CreateUserResult{}, err
	}
	if existing != nil {
		return CreateUserResult{Outcome: Duplicate, InsertedID: existing.ID},
			fmt.Errorf("%w: %s", apperr.ErrDuplicateUser, email)
	}
	u := model.User{
		ID:    primitive.NewObjectID(),
		Name:  strings.TrimSpace(in.Name),
		Email: email,
		Photo: in.Photo,
	}
	res, err := s.users.Insert(ctx, &u)
	if err != nil {
		return CreateUserResult{}, err
	}
	s.log.Info("user registered", zap.String("email", email))
	return CreateUserResult{Outcome: Created, InsertedID: res.InsertedID}, nil
}

// List returns every user. Admin only.
func (s *UserService) List(ctx context.Context, caller policy.Caller) ([]model.User, error) {
	if err := authorize(s.log, caller, policy.ListUsers, ""); err != nil {
		return nil, err
	}
	return s.users.Find(ctx, nil)
}

// Instructors returns users whose role is instructor.
func (s *UserService) Instructors(ctx context.Context) ([]model.User, error) {
	return s.users.Find(ctx, repository.ByField("role", model.RoleInstructor))
}

// Current fetches a user by email. A missing user is (nil, nil).
func (s *UserService) Current(ctx context.Context, email string) (*model.User, error) {
	f, err := repository.RequireField("email", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.users.FindOne(ctx, f)
}

// SetRole assigns role to the user with the given id. Only the role field
// is written.
func (s *UserService) SetRole(ctx context.Context, caller policy.Caller, rawID, role string) (repository.UpdateResult, error) {
	byID, err := repository.ByID(rawID)
	if err != nil {
		return repository.UpdateResult{}, err
	}
	if err := authorize(s.log, caller, policy.SetRole, ""); err != nil {
		return repository.UpdateResult{}, err
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !model.ValidRole(role) {
		return repository.UpdateResult{}, invalid("unknown role %q", role)
	}
	res, err := s.users.UpdateOne(ctx, byID, repository.NewUpdate().Set("role", role))
	if err != nil {
		return res, err
	}
	if res.MatchedCount > 0 {
		s.log.Info("role changed", zap.String("user", rawID), zap.String("role", role), zap.String("by", caller.Email))
	}
	return res, nil
}

// ResolveCaller turns an authenticated email into a policy.Caller with the
// stored role. An email with no user record is unauthorized.
func (s *UserService) ResolveCaller(ctx context.Context, email string) (policy.Caller, error) {
	email = normalizeEmail(email)
	if email == "" {
		return policy.Caller{}, fmt.Errorf("%w: missing identity", apperr.ErrUnauthorized)
	}
	u, err := s.users.FindOne(ctx, repository.ByField("email", email))
	if err != nil {
		return policy.Caller{}, err
	}
	if u == nil {
		return policy.Caller{}, fmt.Errorf("%w: %s is not registered", apperr.ErrUnauthorized, email)
	}
	return policy.Caller{Email: u.Email, Role: u.EffectiveRole()}, nil
}
