package service

import (
	"context"
	"testing"
	"time"

	"github.com/shuyuzheng19/go-blog-api/internal/cache"
	"github.com/shuyuzheng19/go-blog-api/internal/cache/cachetest"
	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type userRepoStub struct {
	domain.UserRepo
	byNameCalls int
	user        *domain.User
}

func (s *userRepoStub) ByUsername(_ context.Context, username string) (*domain.User, error) {
	s.byNameCalls++
	if s.user != nil && s.user.Username == username {
		cp := *s.user
		return &cp, nil
	}
	return nil, nil
}

// plainHasher — без argon2, чтобы тесты не жгли CPU.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (plainHasher) Verify(plain, encoded string) (bool, error) {
	return encoded == "hash:"+plain, nil
}

type tokenStub struct{ n int }

func (t *tokenStub) Issue(_ context.Context, id domain.UserID, username string) (domain.Token, domain.TokenClaims, error) {
	t.n++
	return domain.Token("tok-" + username + "-" + string(rune('0'+t.n))), domain.TokenClaims{
		UserID: id, Username: username,
		IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (t *tokenStub) Parse(_ context.Context, raw domain.Token) (domain.TokenClaims, error) {
	return domain.TokenClaims{}, nil
}

type mailerStub struct {
	codes    map[string]string
	contacts int
}

func (m *mailerStub) SendCode(_ context.Context, to, code string) error {
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[to] = code
	return nil
}
func (m *mailerStub) SendContact(_ context.Context, subject, name, replyTo, content string) error {
	m.contacts++
	return nil
}

func newUserService(repo *userRepoStub, kv *cachetest.MemKV, mailer *mailerStub) (*UserService, *cache.UserCache) {
	uc := cache.NewUserCache(kv, discard(), 7)
	svc := NewUserService(repo, uc, plainHasher{}, &tokenStub{}, uc, mailer, discard())
	return svc, uc
}

func TestLoginIssuesSingleActiveToken(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoStub{user: &domain.User{ID: 1, Username: "alice", Password: "hash:secret", Role: domain.RoleUser}}
	svc, uc := newUserService(repo, cachetest.New(), &mailerStub{})

	first, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Login(ctx, "alice", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if first.Token == second.Token {
		t.Fatal("expected a fresh token per login")
	}

	active, err := uc.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if active != second.Token {
		t.Fatalf("active token = %q, want latest %q", active, second.Token)
	}
}

func TestLoginUsesCachedProfile(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoStub{user: &domain.User{ID: 1, Username: "alice", Password: "hash:secret", Role: domain.RoleUser}}
	svc, _ := newUserService(repo, cachetest.New(), &mailerStub{})

	if _, err := svc.Login(ctx, "alice", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "alice", "secret"); err != nil {
		t.Fatal(err)
	}
	if repo.byNameCalls != 1 {
		t.Fatalf("repo calls = %d, want 1 (profile cached)", repo.byNameCalls)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoStub{user: &domain.User{ID: 1, Username: "alice", Password: "hash:secret"}}
	svc, _ := newUserService(repo, cachetest.New(), &mailerStub{})

	if _, err := svc.Login(ctx, "alice", "wrong"); err != domain.ErrUnauth {
		t.Fatalf("err = %v, want ErrUnauth", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	repo := &userRepoStub{user: &domain.User{ID: 1, Username: "alice", Password: "hash:secret"}}
	svc, uc := newUserService(repo, cachetest.New(), &mailerStub{})

	if _, err := svc.Login(ctx, "alice", "secret"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	active, err := uc.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if active != "" {
		t.Fatalf("token survived logout: %q", active)
	}
}

func TestSendCodeThrottled(t *testing.T) {
	ctx := context.Background()
	mailer := &mailerStub{}
	svc, _ := newUserService(&userRepoStub{}, cachetest.New(), mailer)

	if err := svc.SendCode(ctx, "a@b.com"); err != nil {
		t.Fatal(err)
	}
	// пока код жив, повторная отправка отклоняется
	if err := svc.SendCode(ctx, "a@b.com"); err != domain.ErrBadParams {
		t.Fatalf("err = %v, want ErrBadParams", err)
	}
	if len(mailer.codes) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.codes))
	}
}
