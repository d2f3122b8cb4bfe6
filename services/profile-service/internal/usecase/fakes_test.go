package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/config"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/repository"
	"github.com/vasapolrittideah/devconnector-api/shared/auth"
	"github.com/vasapolrittideah/devconnector-api/shared/provider"
	"github.com/vasapolrittideah/devconnector-api/shared/validation"
)

// memStore implements the account, profile and post repositories in memory.
type memStore struct {
	mu       sync.Mutex
	accounts map[bson.ObjectID]*model.Account
	profiles map[bson.ObjectID]*model.Profile
	posts    map[bson.ObjectID]int
	tokens   map[string]*model.PasswordResetToken
	calls    []string

	// failOn makes the named call return err.
	failOn string
	err    error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[bson.ObjectID]*model.Account{},
		profiles: map[bson.ObjectID]*model.Profile{},
		posts:    map[bson.ObjectID]int{},
		tokens:   map[string]*model.PasswordResetToken{},
	}
}

func (s *memStore) record(call string) error {
	s.calls = append(s.calls, call)
	if s.failOn == call {
		return s.err
	}
	return nil
}

func (s *memStore) CreateAccount(_ context.Context, account *model.Account) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateAccount"); err != nil {
		return nil, err
	}

	for _, a := range s.accounts {
		if a.Email == account.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	account.ID = bson.NewObjectID()
	account.CreatedAt = time.Now().UTC()
	stored := *account
	s.accounts[account.ID] = &stored

	return account, nil
}

func (s *memStore) GetAccount(_ context.Context, id bson.ObjectID) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetAccount"); err != nil {
		return nil, err
	}

	a, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (s *memStore) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetAccountByEmail"); err != nil {
		return nil, err
	}

	for _, a := range s.accounts {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) UpdatePassword(_ context.Context, id bson.ObjectID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdatePassword"); err != nil {
		return err
	}

	a, ok := s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (s *memStore) DeleteAccount(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteAccount"); err != nil {
		return err
	}

	if _, ok := s.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *memStore) UpsertProfile(
	_ context.Context,
	userID bson.ObjectID,
	fields model.ProfileFields,
) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpsertProfile"); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		p = &model.Profile{
			ID:         bson.NewObjectID(),
			UserID:     userID,
			Experience: []model.Experience{},
			Education:  []model.Education{},
			CreatedAt:  time.Now().UTC(),
		}
		s.profiles[userID] = p
	}

	p.Department = fields.Department
	p.Location = fields.Location
	p.Status = fields.Status
	p.Bio = fields.Bio
	p.GitHubUsername = fields.GitHubUsername
	p.Social = fields.Social

	return cloneProfile(p), nil
}

func (s *memStore) GetProfileByUser(_ context.Context, userID bson.ObjectID) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetProfileByUser"); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (s *memStore) ListProfiles(context.Context) ([]*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListProfiles"); err != nil {
		return nil, err
	}

	out := []*model.Profile{}
	for _, p := range s.profiles {
		out = append(out, cloneProfile(p))
	}
	return out, nil
}

func (s *memStore) DeleteProfileByUser(_ context.Context, userID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteProfileByUser"); err != nil {
		return err
	}

	if _, ok := s.profiles[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.profiles, userID)
	return nil
}

func (s *memStore) PushExperience(_ context.Context, userID bson.ObjectID, entry model.Experience) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("PushExperience"); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Experience = append([]model.Experience{entry}, p.Experience...)
	return cloneProfile(p), nil
}

func (s *memStore) PushEducation(_ context.Context, userID bson.ObjectID, entry model.Education) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("PushEducation"); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Education = append([]model.Education{entry}, p.Education...)
	return cloneProfile(p), nil
}

func (s *memStore) PullExperience(_ context.Context, userID, entryID bson.ObjectID) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("PullExperience"); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := []model.Experience{}
	for _, e := range p.Experience {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	p.Experience = kept
	return cloneProfile(p), nil
}

func (s *memStore) PullEducation(_ context.Context, userID, entryID bson.ObjectID) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("PullEducation"); err != nil {
		return nil, err
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := []model.Education{}
	for _, e := range p.Education {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	p.Education = kept
	return cloneProfile(p), nil
}

func (s *memStore) DeletePostsByUser(_ context.Context, userID bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeletePostsByUser"); err != nil {
		return 0, err
	}

	n := s.posts[userID]
	delete(s.posts, userID)
	return int64(n), nil
}

func (s *memStore) CreateToken(
	_ context.Context,
	token *model.PasswordResetToken,
) (*model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateToken"); err != nil {
		return nil, err
	}

	token.ID = bson.NewObjectID()
	stored := *token
	s.tokens[token.JTI] = &stored
	return token, nil
}

func (s *memStore) GetTokenByJTI(_ context.Context, jti string) (*model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetTokenByJTI"); err != nil {
		return nil, err
	}

	t, ok := s.tokens[jti]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *memStore) MarkTokenAsUsed(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("MarkTokenAsUsed"); err != nil {
		return err
	}

	t, ok := s.tokens[jti]
	if !ok || t.Used {
		return repository.ErrNotFound
	}
	t.Used = true
	return nil
}

func (s *memStore) InvalidateUserTokens(_ context.Context, userID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("InvalidateUserTokens"); err != nil {
		return err
	}

	for _, t := range s.tokens {
		if t.UserID == userID {
			t.Used = true
		}
	}
	return nil
}

func cloneProfile(p *model.Profile) *model.Profile {
	out := *p
	out.Experience = append([]model.Experience{}, p.Experience...)
	out.Education = append([]model.Education{}, p.Education...)
	return &out
}

// blockingProfiles never answers before the context is done.
type blockingProfiles struct {
	repository.ProfileRepository
}

func (blockingProfiles) GetProfileByUser(ctx context.Context, _ bson.ObjectID) (*model.Profile, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockRepoLister struct {
	mock.Mock
}

func (m *mockRepoLister) ListRepos(ctx context.Context, username string) ([]provider.RepoSummary, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.RepoSummary), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendWelcome(name, address string) error {
	return m.Called(name, address).Error(0)
}

func (m *mockMailer) SendPasswordReset(address, resetLink string, expiresIn time.Duration) error {
	return m.Called(address, resetLink, expiresIn).Error(0)
}

const testStoreTimeout = time.Second

func newTestTokenService() TokenService {
	return NewTokenService(
		auth.NewJWTAuthenticator("devconnector-api", "devconnector-api"),
		config.TokenConfig{Secret: "test-secret", Issuer: "devconnector-api", ExpiresIn: 36000 * time.Second},
	)
}

type testEnv struct {
	store   *memStore
	tokens  TokenService
	auth    AuthUsecase
	profile ProfileUsecase
	lister  *mockRepoLister
}

func newTestEnv() *testEnv {
	logger := zerolog.Nop()
	store := newMemStore()
	tokens := newTestTokenService()
	validator := validation.New()
	lister := &mockRepoLister{}

	return &testEnv{
		store:   store,
		tokens:  tokens,
		auth:    NewAuthUsecase(store, tokens, validator, nil, testStoreTimeout, &logger),
		profile: NewProfileUsecase(store, store, store, lister, validator, testStoreTimeout, &logger),
		lister:  lister,
	}
}
