// Command seed-db loads the menu (products and combos) and a starter set of
// vouchers into the database. By default it uses the menu embedded in the
// binary; pass -menu-file to seed from a custom JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fastbite/fastbite-api/db"
	"github.com/fastbite/fastbite-api/internal/domain/combo"
	"github.com/fastbite/fastbite-api/internal/repository"
)

type menuJSON struct {
	Products []productJSON `json:"products"`
	Combos   []comboJSON   `json:"combos"`
}

type productJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

type comboJSON struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"image_url"`
	IsAvailable    bool            `json:"is_available"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Items          []struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "", "path to menu JSON file (default: embedded menu)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	menu, err := loadMenu(menuFile)
	if err != nil {
		return errors.Wrap(err, "load menu")
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	productIDs, err := seedProducts(ctx, pool, menu.Products)
	if err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCombos(ctx, pool, menu.Combos, productIDs); err != nil {
		return errors.Wrap(err, "seed combos")
	}

	if err := seedVouchers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed vouchers")
	}

	return nil
}

func loadMenu(menuFile string) (*menuJSON, error) {
	data := db.SeedMenu
	if menuFile != "" {
		slog.Info("reading menu file", slog.String("path", menuFile))
		var err error
		data, err = os.ReadFile(menuFile)
		if err != nil {
			return nil, errors.Wrap(err, "read menu file")
		}
	}

	var menu menuJSON
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, errors.Wrap(err, "parse menu JSON")
	}
	return &menu, nil
}

// seedProducts inserts menu products that are not present yet, keyed by name,
// and returns the name to id mapping for combo seeding.
func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON) (map[string]int64, error) {
	slog.Info("seeding products", slog.Int("count", len(products)))

	ids := make(map[string]int64, len(products))
	for _, p := range products {
		var id int64
		err := pool.QueryRow(ctx, `SELECT id FROM products WHERE name = $1`, p.Name).Scan(&id)
		if err == nil {
			ids[p.Name] = id
			slog.Info("product exists", slog.String("name", p.Name), slog.Int64("id", id))
			continue
		}

		err = pool.QueryRow(ctx, `
			INSERT INTO products (name, description, price, category, image_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			p.Name, p.Description, p.Price, p.Category, p.ImageURL,
		).Scan(&id)
		if err != nil {
			return nil, errors.Wrapf(err, "insert product %s", p.Name)
		}

		ids[p.Name] = id
		slog.Info("inserted product", slog.String("name", p.Name), slog.Int64("id", id))
	}

	return ids, nil
}

// seedCombos creates menu combos through the combo service so prices are
// derived from the catalog the same way the API does it.
func seedCombos(ctx context.Context, pool *pgxpool.Pool, combos []comboJSON, productIDs map[string]int64) error {
	slog.Info("seeding combos", slog.Int("count", len(combos)))

	svc := combo.NewService(repository.NewProductRepository(pool), repository.NewComboRepository(pool))

	for _, c := range combos {
		var exists bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM combos WHERE name = $1)`, c.Name).Scan(&exists); err != nil {
			return errors.Wrapf(err, "check combo %s", c.Name)
		}
		if exists {
			slog.Info("combo exists", slog.String("name", c.Name))
			continue
		}

		draft := combo.Draft{
			Name:           c.Name,
			Description:    c.Description,
			ImageURL:       c.ImageURL,
			Available:      c.IsAvailable,
			DiscountAmount: c.DiscountAmount,
		}
		for _, it := range c.Items {
			id, ok := productIDs[it.Product]
			if !ok {
				return errors.Errorf("combo %s references unknown product %q", c.Name, it.Product)
			}
			draft.Items = append(draft.Items, combo.Item{ProductID: id, Quantity: it.Quantity})
		}

		created, err := svc.Create(ctx, draft)
		if err != nil {
			return errors.Wrapf(err, "create combo %s", c.Name)
		}

		slog.Info("created combo",
			slog.String("name", created.Name),
			slog.String("final_price", created.FinalPrice.String()),
		)
	}

	return nil
}

// seedVouchers upserts a small starter set of promo codes.
func seedVouchers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding vouchers")

	now := time.Now()
	vouchers := []struct {
		code         string
		discountType string
		value        decimal.Decimal
		maxDiscount  decimal.NullDecimal
		minOrder     decimal.Decimal
		usageLimit   int
	}{
		{
			code:         "SAVE10",
			discountType: "percent",
			value:        decimal.NewFromInt(10),
			maxDiscount:  decimal.NewNullDecimal(decimal.NewFromInt(15000)),
			minOrder:     decimal.NewFromInt(100000),
			usageLimit:   1000,
		},
		{
			code:         "FREESHIP25",
			discountType: "fixed",
			value:        decimal.NewFromInt(25000),
			minOrder:     decimal.NewFromInt(150000),
			usageLimit:   500,
		},
		{
			code:         "WELCOME",
			discountType: "fixed",
			value:        decimal.NewFromInt(30000),
			minOrder:     decimal.NewFromInt(80000),
			usageLimit:   0,
		},
	}

	for _, v := range vouchers {
		_, err := pool.Exec(ctx, `
			INSERT INTO vouchers
				(code, discount_type, discount_value, max_discount_amount,
				 min_order_value, usage_limit, is_active, starts_at, ends_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
			ON CONFLICT (code) DO UPDATE SET
				discount_type       = EXCLUDED.discount_type,
				discount_value      = EXCLUDED.discount_value,
				max_discount_amount = EXCLUDED.max_discount_amount,
				min_order_value     = EXCLUDED.min_order_value,
				usage_limit         = EXCLUDED.usage_limit,
				is_active           = TRUE,
				ends_at             = EXCLUDED.ends_at`,
			v.code, v.discountType, v.value, v.maxDiscount,
			v.minOrder, v.usageLimit, now.AddDate(0, 0, -1), now.AddDate(1, 0, 0),
		)
		if err != nil {
			return errors.Wrapf(err, "upsert voucher %s", v.code)
		}

		slog.Info("upserted voucher", slog.String("code", v.code))
	}

	return nil
}
