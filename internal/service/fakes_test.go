package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/repository/contract"
	"github.com/code-gritt/maiden/internal/repository/specification"
	"github.com/code-gritt/maiden/internal/repository/unitofwork"
	"github.com/code-gritt/maiden/pkg/events"
)

// memDB is a lock-protected in-memory stand-in for the database, shared by
// the fake repositories below.
type memDB struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	sessions      map[string]*entity.Session
	resetTokens   map[uuid.UUID]*entity.PasswordResetToken
	pdfs          map[uuid.UUID]*entity.Pdf
	messages      []*entity.ChatMessage
	subscriptions map[uuid.UUID]*entity.Subscription
	notifications []*entity.PaymentNotification
}

func newMemDB() *memDB {
	return &memDB{
		users:         make(map[uuid.UUID]*entity.User),
		sessions:      make(map[string]*entity.Session),
		resetTokens:   make(map[uuid.UUID]*entity.PasswordResetToken),
		pdfs:          make(map[uuid.UUID]*entity.Pdf),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
	}
}

type fakeUow struct {
	db *memDB
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{db: u.db}
}
func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepo{db: u.db}
}
func (u *fakeUow) PdfRepository() contract.PdfRepository {
	return &fakePdfRepo{db: u.db}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeChatRepo{db: u.db}
}
func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{db: u.db}
}

type fakeFactory struct {
	db *memDB
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{db: newMemDB()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: f.db}
}

// --- users ---

type fakeUserRepo struct {
	db *memDB
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if u.Id != spec.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != spec.Email {
				return false
			}
		case specification.ByUsername:
			if u.Username != spec.Username {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return errors.New("duplicate key")
		}
	}
	cp := *user
	r.db.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *user
	r.db.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if userMatches(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.users {
		if userMatches(u, specs) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) DebitCredits(ctx context.Context, userId uuid.UUID, amount int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userId]
	if !ok || u.Credits < amount {
		return false, nil
	}
	u.Credits -= amount
	return true, nil
}

func (r *fakeUserRepo) GrantCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[userId]; ok {
		u.Credits += amount
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[userId]; ok {
		u.PasswordHash = &hash
	}
	return nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *token
	r.db.resetTokens[token.Id] = &cp
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, tok := range r.db.resetTokens {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByToken); ok && tok.Token != spec.Token {
				match = false
			}
		}
		if match {
			cp := *tok
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if tok, ok := r.db.resetTokens[id]; ok {
		tok.Used = true
	}
	return nil
}

func (r *fakeUserRepo) DeletePasswordResetTokens(ctx context.Context, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, tok := range r.db.resetTokens {
		if tok.UserId == userId {
			delete(r.db.resetTokens, id)
		}
	}
	return nil
}

// --- sessions ---

type fakeSessionRepo struct {
	db *memDB
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *session
	r.db.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, sess := range r.db.sessions {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByToken); ok && sess.Token != spec.Token {
				match = false
			}
		}
		if match {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sessions[token]; !ok {
		return false, nil
	}
	delete(r.db.sessions, token)
	return true, nil
}

func (r *fakeSessionRepo) DeleteById(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for token, sess := range r.db.sessions {
		if sess.Id == id {
			delete(r.db.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteForUser(ctx context.Context, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for token, sess := range r.db.sessions {
		if sess.UserId == userId {
			delete(r.db.sessions, token)
		}
	}
	return nil
}

// --- pdfs ---

type fakePdfRepo struct {
	db *memDB
}

func pdfMatches(p *entity.Pdf, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if p.Id != spec.ID {
				return false
			}
		case specification.OwnedBy:
			if p.UserId != spec.UserID {
				return false
			}
		case specification.ByStorageKey:
			if p.StorageKey != spec.Key {
				return false
			}
		}
	}
	return true
}

func (r *fakePdfRepo) Create(ctx context.Context, pdf *entity.Pdf) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *pdf
	r.db.pdfs[pdf.Id] = &cp
	return nil
}

func (r *fakePdfRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.pdfs, id)
	return nil
}

func (r *fakePdfRepo) DeleteForUser(ctx context.Context, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, p := range r.db.pdfs {
		if p.UserId == userId {
			delete(r.db.pdfs, id)
		}
	}
	return nil
}

func (r *fakePdfRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Pdf, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.pdfs {
		if pdfMatches(p, specs) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePdfRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Pdf, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Pdf
	for _, p := range r.db.pdfs {
		if pdfMatches(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (r *fakePdfRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- chat messages ---

type fakeChatRepo struct {
	db *memDB
}

func messageMatches(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByPdf:
			if m.PdfId != spec.PdfID {
				return false
			}
		case specification.OwnedBy:
			if m.UserId != spec.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeChatRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *message
	r.db.messages = append(r.db.messages, &cp)
	return nil
}

func (r *fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.db.messages {
		if messageMatches(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeChatRepo) DeleteForPdf(ctx context.Context, pdfId uuid.UUID) error {
	return r.DeleteForPdfs(ctx, []uuid.UUID{pdfId})
}

func (r *fakeChatRepo) DeleteForPdfs(ctx context.Context, pdfIds []uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := make(map[uuid.UUID]bool, len(pdfIds))
	for _, id := range pdfIds {
		ids[id] = true
	}
	kept := r.db.messages[:0]
	for _, m := range r.db.messages {
		if !ids[m.PdfId] {
			kept = append(kept, m)
		}
	}
	r.db.messages = kept
	return nil
}

// --- subscriptions ---

type fakeSubscriptionRepo struct {
	db *memDB
}

func subscriptionMatches(sub *entity.Subscription, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if sub.Id != spec.ID {
				return false
			}
		case specification.OwnedBy:
			if sub.UserId != spec.UserID {
				return false
			}
		case specification.FilterBy:
			if spec.Field == "external_billing_id" {
				val, _ := spec.Value.(string)
				if sub.ExternalBillingId == nil || *sub.ExternalBillingId != val {
					return false
				}
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *sub
	r.db.subscriptions[sub.Id] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	return r.Create(ctx, sub)
}

func (r *fakeSubscriptionRepo) DeleteForUser(ctx context.Context, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, sub := range r.db.subscriptions {
		if sub.UserId == userId {
			delete(r.db.subscriptions, id)
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, sub := range r.db.subscriptions {
		if subscriptionMatches(sub, specs) {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) CreateNotification(ctx context.Context, notification *entity.PaymentNotification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *notification
	r.db.notifications = append(r.db.notifications, &cp)
	return nil
}

// --- collaborators ---

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeMailer struct {
	mu       sync.Mutex
	welcomes []string
	resets   []string
}

func (m *fakeMailer) SendWelcome(toEmail, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}

func (m *fakeMailer) SendResetToken(toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, token)
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type fakeCompletion struct {
	answer string
	err    error
	calls  int
}

func (c *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}
