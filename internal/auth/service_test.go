package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/anecdotheque/internal/model"
	"github.com/hitoshi/anecdotheque/internal/repository"
)

// mockUserRepo はテスト用のUserRepositoryモック。
type mockUserRepo struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	createFunc      func(ctx context.Context, user *model.User) error
	listFunc        func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return m.listFunc(ctx)
}

// mockSessionRepo はテスト用のSessionRepositoryモック。
type mockSessionRepo struct {
	createFunc     func(ctx context.Context, session *model.Session) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFunc func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.createFunc(ctx, session)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFunc(ctx, id)
}

func acceptingSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		createFunc: func(ctx context.Context, session *model.Session) error {
			return nil
		},
	}
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "テスト太郎",
		Email:    "taro@example.com",
		Password: "secret-password",
	}
}

func TestService_Register_Success(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	sessionRepo := acceptingSessionRepo()

	service := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	user, session, err := service.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.Role != model.RoleMember {
		t.Errorf("新規ユーザーのロール: got %s, want %s", user.Role, model.RoleMember)
	}
	if user.Email != "taro@example.com" {
		t.Errorf("Email: got %s", user.Email)
	}
	if created == nil {
		t.Fatal("userRepo.Createが呼ばれていない")
	}
	if created.PasswordHash == "secret-password" {
		t.Error("パスワードが平文のまま保存されている")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("保存されたハッシュが元のパスワードと一致しない: %v", err)
	}
	if session == nil || len(session.ID) != 64 {
		t.Errorf("セッションIDは32バイトのhex（64文字）であるべき: %+v", session)
	}
}

func TestService_Register_NormalizesEmail(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	service := NewService(userRepo, acceptingSessionRepo(), ServiceConfig{SessionMaxAge: 3600})

	input := validRegisterInput()
	input.Email = "  Taro@Example.COM "
	if _, _, err := service.Register(context.Background(), input); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if created.Email != "taro@example.com" {
		t.Errorf("メールアドレスは小文字に正規化されるべき: got %s", created.Email)
	}
}

func TestService_Register_EmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			return repository.ErrEmailConflict
		},
	}

	service := NewService(userRepo, acceptingSessionRepo(), ServiceConfig{SessionMaxAge: 3600})

	_, _, err := service.Register(context.Background(), validRegisterInput())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("EMAIL_TAKENエラーを期待: got %v", err)
	}
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*RegisterInput)
		wantField string
	}{
		{
			name:      "名前が空",
			modify:    func(in *RegisterInput) { in.Name = "  " },
			wantField: "name",
		},
		{
			name:      "名前が長すぎる",
			modify:    func(in *RegisterInput) { in.Name = strings.Repeat("あ", NameMaxLen+1) },
			wantField: "name",
		},
		{
			name:      "メールアドレスが空",
			modify:    func(in *RegisterInput) { in.Email = "" },
			wantField: "email",
		},
		{
			name:      "メールアドレスの形式が不正",
			modify:    func(in *RegisterInput) { in.Email = "not-an-address" },
			wantField: "email",
		},
		{
			name:      "パスワードが短すぎる",
			modify:    func(in *RegisterInput) { in.Password = "short" },
			wantField: "password",
		},
		{
			name:      "パスワードが長すぎる",
			modify:    func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) },
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{
				createFunc: func(ctx context.Context, user *model.User) error {
					t.Error("バリデーションエラー時にCreateが呼ばれた")
					return nil
				},
			}
			service := NewService(userRepo, acceptingSessionRepo(), ServiceConfig{SessionMaxAge: 3600})

			input := validRegisterInput()
			tt.modify(&input)

			_, _, err := service.Register(context.Background(), input)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("APIErrorを期待: got %v", err)
			}
			if apiErr.Code != model.ErrCodeValidation {
				t.Errorf("Code: got %s, want %s", apiErr.Code, model.ErrCodeValidation)
			}
			if apiErr.Field != tt.wantField {
				t.Errorf("Field: got %s, want %s", apiErr.Field, tt.wantField)
			}
		})
	}
}

func TestService_Login_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	userRepo := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: string(hash),
				Role:         model.RoleMember,
			}, nil
		},
	}

	service := NewService(userRepo, acceptingSessionRepo(), ServiceConfig{SessionMaxAge: 3600})

	user, session, err := service.Login(context.Background(), LoginInput{
		Email:    "taro@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("UserID: got %s", user.ID)
	}
	if session.UserID != "user-1" {
		t.Errorf("セッションのUserID: got %s", session.UserID)
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	userRepo := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", PasswordHash: string(hash)}, nil
		},
	}

	service := NewService(userRepo, acceptingSessionRepo(), ServiceConfig{SessionMaxAge: 3600})

	_, _, err = service.Login(context.Background(), LoginInput{
		Email:    "taro@example.com",
		Password: "wrong-password",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("INVALID_CREDENTIALSエラーを期待: got %v", err)
	}
}

func TestService_Login_UnknownEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
	}

	service := NewService(userRepo, acceptingSessionRepo(), ServiceConfig{SessionMaxAge: 3600})

	_, _, err := service.Login(context.Background(), LoginInput{
		Email:    "unknown@example.com",
		Password: "whatever-password",
	})

	// 未登録と誤パスワードで区別のつくエラーを返してはならない
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("INVALID_CREDENTIALSエラーを期待: got %v", err)
	}
}

func TestService_Logout(t *testing.T) {
	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	service := NewService(&mockUserRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if err := service.Logout(context.Background(), "session-123"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if deletedID != "session-123" {
		t.Errorf("削除対象のセッションID: got %s", deletedID)
	}

	if err := service.Logout(context.Background(), ""); err == nil {
		t.Error("空のセッションIDはエラーになるべき")
	}
}

func TestService_GetCurrentUser(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			if id == "valid-session" {
				return &model.Session{ID: id, UserID: "user-1"}, nil
			}
			return nil, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "テスト太郎", Role: model.RoleAdmin}, nil
		},
	}

	service := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	user, err := service.GetCurrentUser(context.Background(), "valid-session")
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if user.ID != "user-1" || user.Role != model.RoleAdmin {
		t.Errorf("取得したユーザーが異なる: %+v", user)
	}

	_, err = service.GetCurrentUser(context.Background(), "expired-session")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("期限切れセッションはUSER_NOT_FOUND: got %v", err)
	}

	if _, err := service.GetCurrentUser(context.Background(), ""); err == nil {
		t.Error("空のセッションIDはエラーになるべき")
	}
}
