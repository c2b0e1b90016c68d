package api

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type memoryProjects struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Project
	err    error
}

func newMemoryProjects() *memoryProjects {
	return &memoryProjects{rows: map[uint]models.Project{}}
}

func (m *memoryProjects) sorted(activeOnly bool) []models.Project {
	var out []models.Project
	for _, p := range m.rows {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Project) int {
		return cmp.Or(
			cmp.Compare(a.SortOrder, b.SortOrder),
			cmp.Compare(b.ProjectYear, a.ProjectYear),
			cmp.Compare(b.ID, a.ID),
		)
	})
	return out
}

func (m *memoryProjects) ListActive(context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(true), nil
}

func (m *memoryProjects) ListActivePage(_ context.Context, page models.PageRequest) ([]models.Project, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	all := m.sorted(true)
	return pageOf(all, page), int64(len(all)), nil
}

func (m *memoryProjects) ListAll(context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(false), nil
}

func (m *memoryProjects) FindActive(_ context.Context, id uint) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.rows[id]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memoryProjects) Create(_ context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryProjects) Replace(_ context.Context, id uint, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	old, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ID = id
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now()
	m.rows[id] = *p
	return nil
}

func (m *memoryProjects) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.rows, id)
	return nil
}

type memoryBlogPosts struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.BlogPost
}

func newMemoryBlogPosts() *memoryBlogPosts {
	return &memoryBlogPosts{rows: map[uint]models.BlogPost{}}
}

func (m *memoryBlogPosts) sorted(keep func(models.BlogPost) bool) []models.BlogPost {
	var out []models.BlogPost
	for _, p := range m.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.BlogPost) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out
}

func (m *memoryBlogPosts) ListActive(_ context.Context, category string) ([]models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p models.BlogPost) bool {
		return p.IsActive && (category == "" || strings.EqualFold(p.Category, category))
	}), nil
}

func (m *memoryBlogPosts) FindActive(_ context.Context, id uint) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memoryBlogPosts) ListPage(_ context.Context, page models.PageRequest) ([]models.BlogPost, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(func(models.BlogPost) bool { return true })
	return pageOf(all, page), int64(len(all)), nil
}

func (m *memoryBlogPosts) FindByID(_ context.Context, id uint) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memoryBlogPosts) Create(_ context.Context, p *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryBlogPosts) Replace(_ context.Context, id uint, p *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ID = id
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now()
	m.rows[id] = *p
	return nil
}

func (m *memoryBlogPosts) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memoryMessages struct {
	mu   sync.Mutex
	rows []models.ContactMessage
}

func (m *memoryMessages) Create(_ context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uint(len(m.rows) + 1)
	msg.CreatedAt = time.Now()
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memoryMessages) ListPage(_ context.Context, page models.PageRequest) ([]models.ContactMessage, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newest := slices.Clone(m.rows)
	slices.Reverse(newest)
	return pageOf(newest, page), int64(len(newest)), nil
}

func (m *memoryMessages) all() []models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

func pageOf[T any](rows []T, page models.PageRequest) []T {
	start := min(page.Offset(), len(rows))
	end := min(start+page.Limit, len(rows))
	return rows[start:end]
}

type memoryAdmins struct {
	mu     sync.Mutex
	nextID uint
	admins map[uint]*models.Admin
}

func newMemoryAdmins() *memoryAdmins {
	return &memoryAdmins{admins: map[uint]*models.Admin{}}
}

func (m *memoryAdmins) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.admins)), nil
}

func (m *memoryAdmins) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryAdmins) FindByID(_ context.Context, id uint) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryAdmins) Create(_ context.Context, admin *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == admin.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	admin.ID = m.nextID
	cp := *admin
	m.admins[admin.ID] = &cp
	return nil
}

func (m *memoryAdmins) UpdateCredentials(_ context.Context, id uint, username, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if username != "" {
		a.Username = username
	}
	if hash != "" {
		a.PasswordHash = hash
	}
	return nil
}

type stubNotifier struct {
	err   error
	mu    sync.Mutex
	calls int
}

func (s *stubNotifier) Name() string { return "stub" }

func (s *stubNotifier) Notify(context.Context, models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

type stubHealth struct {
	err error
}

func (s stubHealth) Ping(context.Context) error { return s.err }
