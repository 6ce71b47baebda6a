package usecase

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string]interface{}
	getError error
	setError error
	getCalls int
	setCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheRepository) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// MockOracle is a mock implementation of domain.Oracle
type MockOracle struct {
	mu       sync.Mutex
	requests []domain.CompletionRequest
	respond  func(req domain.CompletionRequest) (string, error)
}

func NewMockOracle(respond func(req domain.CompletionRequest) (string, error)) *MockOracle {
	return &MockOracle{respond: respond}
}

func (m *MockOracle) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.respond(req)
}

func (m *MockOracle) calls(purpose string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.Purpose == purpose {
			n++
		}
	}
	return n
}

func (m *MockOracle) prompts(purpose string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, r := range m.requests {
		if r.Purpose == purpose {
			out = append(out, r.Prompt)
		}
	}
	return out
}

// MockCatalog is a mock implementation of domain.CatalogRepository
type MockCatalog struct {
	mu            sync.Mutex
	categories    []domain.Category
	products      map[string][]domain.Product
	categoriesErr error
	productsErr   error
	productCalls  []string
}

func NewMockCatalog(categories []domain.Category, products map[string][]domain.Product) *MockCatalog {
	return &MockCatalog{categories: categories, products: products}
}

func (m *MockCatalog) CategoriesForStore(ctx context.Context, storeID string) ([]domain.Category, error) {
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	return m.categories, nil
}

func (m *MockCatalog) ProductsForCategory(ctx context.Context, categoryName, storeID string) ([]domain.Product, error) {
	m.mu.Lock()
	m.productCalls = append(m.productCalls, categoryName)
	m.mu.Unlock()
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	return m.products[categoryName], nil
}

// MockHistoryRepository is a mock implementation of domain.HistoryRepository
type MockHistoryRepository struct {
	records   map[string][]domain.HistoryRecord
	saveError error
	listError error
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{records: make(map[string][]domain.HistoryRecord)}
}

func (m *MockHistoryRepository) Save(ctx context.Context, record *domain.HistoryRecord) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.records[record.UserID] = append(m.records[record.UserID], *record)
	return nil
}

func (m *MockHistoryRepository) List(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.records[userID], nil
}

var promptPairLine = regexp.MustCompile(`(?m)^(\d+)\. ingredient: "(.*)" -> product: "(.*)"$`)

// approveProducts answers a validation prompt with YES for the listed product
// names (case-insensitive) and NO for everything else.
func approveProducts(names ...string) func(string) string {
	approved := make(map[string]bool, len(names))
	for _, n := range names {
		approved[strings.ToLower(n)] = true
	}
	return func(prompt string) string {
		var answers []string
		for _, m := range promptPairLine.FindAllStringSubmatch(prompt, -1) {
			decision := "NO"
			if approved[strings.ToLower(m[3])] {
				decision = "YES"
			}
			answers = append(answers, m[1]+":"+decision)
		}
		return strings.Join(answers, ", ")
	}
}
