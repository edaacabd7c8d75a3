package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/storage"
)

type AuthService struct {
	users   repository.UserRepository
	mentors repository.MentorRepository
	tokens  *auth.TokenService
	files   storage.FileStorage
}

func NewAuthService(users repository.UserRepository, mentors repository.MentorRepository, tokens *auth.TokenService, files storage.FileStorage) *AuthService {
	return &AuthService{users: users, mentors: mentors, tokens: tokens, files: files}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type MentorApplication struct {
	Bio               string
	Expertise         string
	YearsOfExperience int
	HourlyRate        float64
	LinkedInURL       *string
	GitHubURL         *string
}

type MentorProfileUpdate struct {
	Bio               *string
	Expertise         *string
	YearsOfExperience *int
	HourlyRate        *float64
	LinkedInURL       *string
	GitHubURL         *string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user := &models.User{
		Email:          auth.NormalizeEmail(in.Email),
		FullName:       strings.TrimSpace(in.FullName),
		HashedPassword: hash,
		Role:           models.RoleUser,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal(err)
	}
	loggers.Log.WithField("user_id", user.ID).Info("New user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, password) {
		return nil, apperror.Unauthenticated("incorrect email or password")
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("account inactive")
	}

	ttl := s.tokens.DefaultTTL()
	token, _, err := s.tokens.Issue(user.Email, user.ID, user.Role, ttl)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

// ApplyAsMentor creates a pending mentor profile and promotes a standard user to mentor.
func (s *AuthService) ApplyAsMentor(ctx context.Context, actor *models.User, in MentorApplication) (*models.MentorProfile, error) {
	years := in.YearsOfExperience
	rate := in.HourlyRate
	bio := strings.TrimSpace(in.Bio)
	expertise := strings.TrimSpace(in.Expertise)

	profile := &models.MentorProfile{
		UserID:            actor.ID,
		Bio:               &bio,
		Expertise:         &expertise,
		YearsOfExperience: &years,
		HourlyRate:        &rate,
		LinkedInURL:       trimmed(in.LinkedInURL),
		GitHubURL:         trimmed(in.GitHubURL),
		Status:            models.MentorPending,
	}
	if err := s.mentors.CreateApplication(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("you have already applied as a mentor")
		}
		return nil, apperror.Internal(err)
	}
	if actor.Role == models.RoleUser {
		actor.Role = models.RoleMentor
	}
	profile.User = *actor
	return profile, nil
}

func (s *AuthService) MentorProfile(ctx context.Context, actor *models.User) (*models.MentorProfile, error) {
	profile, err := s.mentors.FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, lookupErr(err, "mentor profile not found")
	}
	return profile, nil
}

func (s *AuthService) UpdateMentorProfile(ctx context.Context, actor *models.User, in MentorProfileUpdate) (*models.MentorProfile, error) {
	profile, err := s.MentorProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if in.Bio != nil {
		profile.Bio = trimmed(in.Bio)
	}
	if in.Expertise != nil {
		profile.Expertise = trimmed(in.Expertise)
	}
	if in.YearsOfExperience != nil {
		profile.YearsOfExperience = in.YearsOfExperience
	}
	if in.HourlyRate != nil {
		profile.HourlyRate = in.HourlyRate
	}
	if in.LinkedInURL != nil {
		profile.LinkedInURL = trimmed(in.LinkedInURL)
	}
	if in.GitHubURL != nil {
		profile.GitHubURL = trimmed(in.GitHubURL)
	}
	if err := s.mentors.Save(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (s *AuthService) UploadProfilePicture(ctx context.Context, actor *models.User, r io.Reader, filename, contentType string) (*models.User, error) {
	if !imageTypes[contentType] {
		return nil, apperror.BadRequest("only JPEG and PNG images are allowed")
	}
	url, err := s.files.Upload(ctx, r, "profile_pictures", objectName(fmt.Sprintf("user_%d", actor.ID), filename), contentType)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, apperror.New(apperror.KindUnavailable, "file storage is not configured")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to upload profile picture", err)
	}
	actor.ProfilePicture = &url
	if err := s.users.Save(ctx, actor); err != nil {
		return nil, apperror.Internal(err)
	}
	return actor, nil
}
