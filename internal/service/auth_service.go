package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"amarbiye.com/campusmatrimony/internal/config"
	"amarbiye.com/campusmatrimony/internal/dto"
	"amarbiye.com/campusmatrimony/internal/model"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GoogleLogin() string
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
}

type authService struct {
	repo         repository.UserRepository
	meili        MeiliSearchService
	cfg          *config.Config
	secret       string
	tokenTTL     time.Duration
	googleConfig *oauth2.Config
}

func NewAuthService(repo repository.UserRepository, meili MeiliSearchService, cfg *config.Config) AuthService {
	googleConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &authService{
		repo:         repo,
		meili:        meili,
		cfg:          cfg,
		secret:       cfg.JWTSecret,
		tokenTTL:     time.Duration(cfg.JWTTTLMinutes) * time.Minute,
		googleConfig: googleConfig,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.New(0, "an account with this email already exists", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, "user")
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roleID := role.ID
	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     input.FullName,
		RoleID:       &roleID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	createdUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(createdUser)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if user.IsBanned || !user.IsActive {
		return nil, apperror.New(0, "this account has been disabled", apperror.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GoogleLogin() string {
	return s.googleConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.New("failed to exchange token: " + err.Error())
	}

	client := s.googleConfig.Client(ctx, token)
	userInfoResp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, errors.New("failed to get user info: " + err.Error())
	}
	defer userInfoResp.Body.Close()

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}

	if err := json.NewDecoder(userInfoResp.Body).Decode(&googleUser); err != nil {
		return nil, errors.New("failed to decode user info: " + err.Error())
	}

	if !googleUser.VerifiedEmail {
		return nil, apperror.New(0, "google account email is not verified", apperror.ErrForbidden)
	}

	email := strings.ToLower(googleUser.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role, err := s.repo.FindRoleByName(ctx, "user")
			if err != nil {
				return nil, errors.New("default role not found")
			}

			// OAuth-only accounts get an unguessable password hash
			randomPassword := uuid.New().String()
			hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)

			roleID := role.ID
			newUser := &model.User{
				Email:        email,
				PasswordHash: string(hashedPassword),
				FullName:     googleUser.Name,
				RoleID:       &roleID,
				GoogleID:     &googleUser.ID,
			}

			if err := s.repo.Create(ctx, newUser); err != nil {
				return nil, errors.New("failed to create user: " + err.Error())
			}

			user, err = s.repo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	} else {
		if user.IsBanned || !user.IsActive {
			return nil, apperror.New(0, "this account has been disabled", apperror.ErrForbidden)
		}
		if user.GoogleID == nil || *user.GoogleID != googleUser.ID {
			user.GoogleID = &googleUser.ID
			if err := s.repo.Update(ctx, user); err != nil {
				log.Printf("Failed to update GoogleID for user %s: %v", user.Email, err)
			}
		}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	var searchToken string
	if s.meili != nil {
		st, err := s.meili.GenerateSearchToken(user.Role.Name)
		if err != nil {
			log.Printf("Failed to generate search token for user %s: %v", user.Email, err)
		} else {
			searchToken = st
		}
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt.Unix(),
		SearchToken: searchToken,
		User:        user,
	}, nil
}
