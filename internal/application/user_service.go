package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/devstack-id/fullstack-api/config"
	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	repo "github.com/devstack-id/fullstack-api/internal/domain/repository"
	"github.com/devstack-id/fullstack-api/pkg/helpers"
	"github.com/devstack-id/fullstack-api/pkg/mailer"
	tpl "github.com/devstack-id/fullstack-api/pkg/mailer/templates"
)

// UserService covers account lifecycle: signup, login/refresh, profile,
// password recovery, and the superuser-facing user administration calls.
type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	Pub          *helpers.RabbitPublisher
	Cfg          *config.Config
	GCS          *storage.Client
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger,
	pub *helpers.RabbitPublisher, cfg *config.Config, gcs *storage.Client, es *elasticsearch.Client) *UserService {
	svc := &UserService{
		Repo:   r,
		JWT:    jwt,
		Redis:  rdb,
		Logger: logger,
		Pub:    pub,
		Cfg:    cfg,
		GCS:    gcs,
		ES:     es,
	}
	if cfg != nil {
		svc.ESUsersIndex = cfg.ESUsersIndex
	}
	return svc
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func keyResetToken(t string) string { return "pwd:reset:token:" + t }

// Register creates a self-service account and enqueues the welcome email.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		IsActive:       true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.AccountCreated,
		Data: tpl.ToMap(tpl.EmailData{
			AppName:  s.Cfg.AppName,
			Name:     displayName(u),
			Email:    u.Email,
			LoginURL: s.Cfg.FrontendURL,
		}),
	})
	_ = s.indexUser(ctx, u)
	return u, nil
}

type AdminCreateUserInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
}

// AdminCreate creates a user on behalf of a superuser; no welcome email.
func (s *UserService) AdminCreate(ctx context.Context, in AdminCreateUserInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:          in.Email,
		HashedPassword: hash,
		FullName:       in.FullName,
		IsActive:       in.IsActive,
		IsSuperuser:    in.IsSuperuser,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// Authenticate validates email/password without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.HashedPassword, password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return u, nil
}

// IssueTokens generates an access/refresh bearer token pair.
func (s *UserService) IssueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, domain.ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil || !u.IsActive {
		return TokenPair{}, domain.ErrInvalidCredentials
	}
	return s.IssueTokens(u)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfileInput uses pointers: only supplied fields are written.
type UpdateProfileInput struct {
	Email    *string
	FullName *string
	Password *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	changes := map[string]any{}
	if in.Email != nil {
		changes["email"] = *in.Email
	}
	if in.FullName != nil {
		changes["full_name"] = *in.FullName
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		changes["hashed_password"] = hash
	}
	u, err := s.Repo.Update(ctx, userID, changes)
	if err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*entity.User, int64, error) {
	return s.Repo.List(ctx, offset, limit)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

type AdminUpdateUserInput struct {
	Email       *string
	FullName    *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
}

func (s *UserService) AdminUpdate(ctx context.Context, id string, in AdminUpdateUserInput) (*entity.User, error) {
	changes := map[string]any{}
	if in.Email != nil {
		changes["email"] = *in.Email
	}
	if in.FullName != nil {
		changes["full_name"] = *in.FullName
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		changes["hashed_password"] = hash
	}
	if in.IsActive != nil {
		changes["is_active"] = *in.IsActive
	}
	if in.IsSuperuser != nil {
		changes["is_superuser"] = *in.IsSuperuser
	}
	u, err := s.Repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// DeleteUser removes an account. Superusers cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, caller *entity.User, id string) (*entity.User, error) {
	if caller != nil && caller.ID == id {
		return nil, domain.ErrPermissionDenied
	}
	u, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deindexUser(ctx, id)
	return u, nil
}

// RecoverPassword issues a reset token and emails a reset link. A missing
// account is reported as ErrNotFound so callers can decide what to reveal.
func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	tok, err := genToken(32)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, keyResetToken(tok), u.ID, s.Cfg.ResetTokenTTL).Err(); err != nil {
		return err
	}
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.ResetPassword,
		Data: tpl.ToMap(tpl.EmailData{
			AppName:   s.Cfg.AppName,
			Name:      displayName(u),
			Email:     u.Email,
			ResetURL:  s.Cfg.ResetPasswordURL + "?token=" + tok,
			ExpiresIn: s.Cfg.ResetTokenTTL.String(),
		}),
	})
	return nil
}

// ResetPassword consumes a recovery token and stores the new credential.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	uid, err := s.Redis.Get(ctx, keyResetToken(token)).Result()
	if err != nil || uid == "" {
		return domain.ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.Repo.Update(ctx, uid, map[string]any{"hashed_password": hash}); err != nil {
		return err
	}
	s.Redis.Del(ctx, keyResetToken(token))
	return nil
}

// UploadAvatar stores the image in GCS and records its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.Cfg.GCSBucket == "" {
		return nil, domain.ErrNotFound
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.Cfg.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.Update(ctx, userID, map[string]any{"avatar_url": url})
	if err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// SearchUsers performs a multi_match query over email and full name.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "full_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"avatar_url": u.AvatarURL,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deindexUser(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

func (s *UserService) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("failed to publish email job")
	}
}

func displayName(u *entity.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
