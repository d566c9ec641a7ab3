package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"gestionale/internal/models"
	"gestionale/internal/repositories"

	"github.com/google/uuid"
)

type ShopStore struct{ s *Store }

func (st *ShopStore) Get(ctx context.Context) (*models.ShopInfo, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	if st.s.shop == nil {
		return nil, nil
	}
	info := *st.s.shop
	return &info, nil
}

func (st *ShopStore) Save(ctx context.Context, info *models.ShopInfo) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	saved := *info
	st.s.shop = &saved
	return nil
}

type CategoryStore struct{ s *Store }

func (st *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]models.Category, 0, len(st.s.categories))
	for _, c := range st.s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (st *CategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	c, ok := st.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (st *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, c := range st.s.categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (st *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	category.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for _, c := range st.s.categories {
		if c.ID == category.ID || strings.EqualFold(c.Name, category.Name) {
			return repositories.ErrDuplicate
		}
	}
	st.s.categories[category.ID] = *category
	return nil
}

type ProductStore struct{ s *Store }

func (st *ProductStore) list(ctx context.Context, keep func(models.Product) bool) ([]models.Product, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []models.Product
	for _, p := range st.s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Code, b.Code))
	})
	return out, nil
}

func (st *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	return st.list(ctx, func(models.Product) bool { return true })
}

func (st *ProductStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	return st.list(ctx, func(p models.Product) bool { return p.CategoryID == categoryID })
}

func (st *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	p, ok := st.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (st *ProductStore) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, p := range st.s.products {
		if strings.EqualFold(p.Code, code) {
			return &p, nil
		}
	}
	return nil, nil
}

// codeTaken must be called with the lock held.
func (st *ProductStore) codeTaken(code string, except uuid.UUID) bool {
	for _, p := range st.s.products {
		if p.ID != except && strings.EqualFold(p.Code, code) {
			return true
		}
	}
	return false
}

func (st *ProductStore) Create(ctx context.Context, product *models.Product) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	product.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.products[product.ID]; ok || st.codeTaken(product.Code, uuid.Nil) {
		return repositories.ErrDuplicate
	}
	st.s.products[product.ID] = *product
	return nil
}

func (st *ProductStore) Update(ctx context.Context, product *models.Product) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	if st.codeTaken(product.Code, product.ID) {
		return repositories.ErrDuplicate
	}
	product.UpdatedAt = st.s.now().UTC()
	st.s.products[product.ID] = *product
	return nil
}

func (st *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(st.s.products, id)
	return nil
}

type DocumentStore struct{ s *Store }

func (st *DocumentStore) Exists(ctx context.Context, signature string) (bool, error) {
	if err := st.s.wait(ctx); err != nil {
		return false, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	_, ok := st.s.signatures[signature]
	return ok, nil
}

func (st *DocumentStore) Record(ctx context.Context, signature string) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.signatures[signature]; !ok {
		st.s.signatures[signature] = st.s.now()
	}
	return nil
}

