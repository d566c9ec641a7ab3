package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RunMigrations applies every statement in order. Each one is idempotent so
// the whole list runs on every start.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	migrations := []string{
		createUsersTable,
		createShopInfoTable,
		createCategoriesTable,
		insertUncategorizedCategory,
		createProductsTable,
		createCustomersTable,
		createConstructionSitesTable,
		createSiteMaterialsTable,
		createPurchasesTable,
		createQuotesTable,
		createQuoteCountersTable,
		createDocumentSignaturesTable,
	}

	for i, migration := range migrations {
		log.Debug("running migration", zap.Int("step", i+1), zap.Int("total", len(migrations)))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("all migrations completed", zap.Int("count", len(migrations)))
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  last_login_at TIMESTAMP WITH TIME ZONE
);
`

const createShopInfoTable = `
CREATE TABLE IF NOT EXISTS shop_info (
  id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
  company_name TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  codice_fiscale TEXT NOT NULL DEFAULT '',
  iban TEXT NOT NULL DEFAULT '',
  payment_conditions TEXT NOT NULL DEFAULT '',
  vat_rate DOUBLE PRECISION NOT NULL DEFAULT 22 CHECK (vat_rate >= 0 AND vat_rate <= 100),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const createCategoriesTable = `
CREATE TABLE IF NOT EXISTS categories (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  name TEXT NOT NULL,
  profit_margin DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (profit_margin >= 0),
  vat_rate DOUBLE PRECISION NOT NULL DEFAULT 22 CHECK (vat_rate >= 0 AND vat_rate <= 100),
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name));
`

const insertUncategorizedCategory = `
INSERT INTO categories (id, name, profit_margin, vat_rate)
VALUES ('00000000-0000-0000-0000-0000000000ca', 'Da Assegnare', 0, 22)
ON CONFLICT (id) DO NOTHING;
`

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  category_id UUID NOT NULL DEFAULT '00000000-0000-0000-0000-0000000000ca' REFERENCES categories(id),
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
  purchase_price DOUBLE PRECISION NOT NULL DEFAULT 0,
  sale_price DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_products_code_lower ON products (LOWER(code));
CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
`

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  business_name TEXT NOT NULL,
  vat_number TEXT NOT NULL DEFAULT '',
  tax_code TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  province TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_customers_vat_number ON customers(vat_number) WHERE vat_number <> '';
CREATE INDEX IF NOT EXISTS idx_customers_tax_code ON customers(tax_code) WHERE tax_code <> '';
`

const createConstructionSitesTable = `
CREATE TABLE IF NOT EXISTS construction_sites (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_construction_sites_customer_id ON construction_sites(customer_id);
`

// product_id carries no foreign key: a material whose product was deleted
// stays on the list and prints as missing.
const createSiteMaterialsTable = `
CREATE TABLE IF NOT EXISTS site_materials (
  site_id UUID NOT NULL REFERENCES construction_sites(id) ON DELETE CASCADE,
  position INT NOT NULL,
  product_id UUID NOT NULL,
  quantity DOUBLE PRECISION NOT NULL CHECK (quantity >= 1),
  purchased BOOLEAN NOT NULL DEFAULT FALSE,
  PRIMARY KEY (site_id, position)
);
`

const createPurchasesTable = `
CREATE TABLE IF NOT EXISTS purchases (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  site_id UUID NOT NULL REFERENCES construction_sites(id) ON DELETE CASCADE,
  date DATE NOT NULL,
  items JSONB NOT NULL DEFAULT '[]',
  total DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_purchases_site_date ON purchases(site_id, date DESC);
`

const createQuotesTable = `
CREATE TABLE IF NOT EXISTS quotes (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  quote_number TEXT NOT NULL UNIQUE,
  customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  site_id UUID REFERENCES construction_sites(id) ON DELETE SET NULL,
  date DATE NOT NULL,
  items JSONB NOT NULL DEFAULT '[]',
  notes TEXT NOT NULL DEFAULT '',
  include_vat BOOLEAN NOT NULL DEFAULT TRUE,
  subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
  tax DOUBLE PRECISION NOT NULL DEFAULT 0,
  total DOUBLE PRECISION NOT NULL DEFAULT 0,
  vat_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_quotes_site_date ON quotes(site_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_quotes_customer_id ON quotes(customer_id);
`

const createQuoteCountersTable = `
CREATE TABLE IF NOT EXISTS quote_counters (
  year INT PRIMARY KEY,
  last_value INT NOT NULL DEFAULT 0
);
`

const createDocumentSignaturesTable = `
CREATE TABLE IF NOT EXISTS document_signatures (
  signature TEXT PRIMARY KEY,
  recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`
