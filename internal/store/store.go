// Package store persists the product catalog as a single JSON document in a
// local bbolt database. Every operation reads the whole document, mutates it
// in memory and writes the whole document back inside one bolt transaction;
// there is no per-record indexing by design. A failed write leaves the
// previous snapshot intact because bolt transactions are atomic.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/openpoint/stockpos/internal/domain"
)

var (
	// ErrNotFound is returned by lookups that miss.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidProduct rejects persistence of products failing the validity check.
	ErrInvalidProduct = errors.New("invalid product")
)

var (
	bucketCatalog  = []byte("catalog")
	bucketReceipts = []byte("receipts")
	keyProducts    = []byte("products")
)

// Store is the bbolt-backed inventory store.
type Store struct {
	db      *bolt.DB
	flight  singleflight.Group
	nowFunc func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open database")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCatalog); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketReceipts)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrap(err, "init buckets")
	}
	return &Store{db: db, nowFunc: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func readCatalog(tx *bolt.Tx) ([]domain.Product, error) {
	raw := tx.Bucket(bucketCatalog).Get(keyProducts)
	if len(raw) == 0 {
		return nil, nil
	}
	var products []domain.Product
	if err := jsonCodec.Unmarshal(raw, &products); err != nil {
		return nil, pkgerrors.Wrap(err, "decode catalog")
	}
	return products, nil
}

func writeCatalog(tx *bolt.Tx, products []domain.Product) error {
	raw, err := jsonCodec.Marshal(products)
	if err != nil {
		return pkgerrors.Wrap(err, "encode catalog")
	}
	if err := tx.Bucket(bucketCatalog).Put(keyProducts, raw); err != nil {
		return pkgerrors.Wrap(err, "write catalog")
	}
	return nil
}

// ListAll returns the current catalog in stable insertion order. Concurrent
// callers coalesce onto a single document read.
func (s *Store) ListAll(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.flight.Do("catalog", func() (interface{}, error) {
		var products []domain.Product
		err := s.db.View(func(tx *bolt.Tx) error {
			var err error
			products, err = readCatalog(tx)
			return err
		})
		return products, err
	})
	if err != nil {
		return nil, err
	}
	// Hand each caller its own copy; the shared flight result must stay pristine.
	shared := v.([]domain.Product)
	out := make([]domain.Product, len(shared))
	copy(out, shared)
	return out, nil
}

// GetByID returns the product with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetByBarcode returns the first product carrying the barcode, or ErrNotFound.
// Barcode uniqueness is expected but not enforced; on duplicates the first
// match in document order wins.
func (s *Store) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode == barcode {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

// Search returns products whose name, description or category contains the
// query case-insensitively, or whose barcode contains it verbatim.
func (s *Store) Search(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var hits []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) ||
			strings.Contains(p.Barcode, query) {
			hits = append(hits, p)
		}
	}
	return hits, nil
}

// Upsert inserts the product if its id is unseen, else replaces the existing
// record in place, preserving document order. It assigns an id when empty and
// always rewrites UpdatedAt. Products failing the validity check are rejected
// with ErrInvalidProduct.
func (s *Store) Upsert(ctx context.Context, p *domain.Product) error {
	if !p.Valid() {
		return ErrInvalidProduct
	}
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	p.Touch(s.nowFunc())

	err := s.db.Update(func(tx *bolt.Tx) error {
		products, err := readCatalog(tx)
		if err != nil {
			return err
		}
		replaced := false
		for i := range products {
			if products[i].ID == p.ID {
				products[i] = *p
				replaced = true
				break
			}
		}
		if !replaced {
			products = append(products, *p)
		}
		return writeCatalog(tx, products)
	})
	if err != nil {
		zap.L().Error("catalog upsert failed", zap.String("id", p.ID), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// successful no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		products, err := readCatalog(tx)
		if err != nil {
			return err
		}
		kept := products[:0]
		for _, p := range products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		return writeCatalog(tx, kept)
	})
}

// ClearAll removes the entire catalog.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalog).Delete(keyProducts)
	})
}

// Update applies fn to the whole catalog inside a single transaction. The
// returned slice replaces the document; returning an error aborts the
// transaction with no change persisted. Checkout commit and destructive
// import run through here.
func (s *Store) Update(ctx context.Context, fn func(products []domain.Product) ([]domain.Product, error)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		products, err := readCatalog(tx)
		if err != nil {
			return err
		}
		next, err := fn(products)
		if err != nil {
			return err
		}
		return writeCatalog(tx, next)
	})
}

// receiptStampLayout is fixed width, unlike RFC3339Nano which trims trailing
// fractional zeros, so lexical key order stays chronological within a second.
const receiptStampLayout = "2006-01-02T15:04:05.000000000Z"

// SaveReceipt journals a committed sale under its receipt id.
func (s *Store) SaveReceipt(ctx context.Context, r *domain.Receipt) error {
	raw, err := jsonCodec.Marshal(r)
	if err != nil {
		return pkgerrors.Wrap(err, "encode receipt")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		key := append([]byte(r.CreatedAt.UTC().Format(receiptStampLayout)), '/')
		key = append(key, r.ID...)
		return tx.Bucket(bucketReceipts).Put(key, raw)
	})
}

// ListReceipts returns the journal in chronological order.
func (s *Store) ListReceipts(ctx context.Context) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReceipts).ForEach(func(k, v []byte) error {
			var r domain.Receipt
			if err := jsonCodec.Unmarshal(v, &r); err != nil {
				return pkgerrors.Wrap(err, "decode receipt")
			}
			receipts = append(receipts, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
