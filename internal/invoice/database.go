package invoice

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/freighthook/invoice-extract/internal/extraction"
)

const (
	invoiceBucketName = "parsed_invoices"
	patternBucketName = "vendor_patterns"
)

// DB defines the interface for database operations
type DB interface {
	// SaveInvoice saves a parsed invoice to the database
	SaveInvoice(inv *ParsedInvoice) error

	// GetInvoice retrieves a parsed invoice by ID
	GetInvoice(id string) (*ParsedInvoice, error)

	// ListInvoices returns all parsed invoices
	ListInvoices() ([]*ParsedInvoice, error)

	// DeleteInvoice removes a parsed invoice from the database
	DeleteInvoice(id string) error

	// LoadProfiles returns persisted vendor pattern overrides
	LoadProfiles() ([]extraction.StoredProfile, error)

	// SaveProfile persists a vendor pattern override
	SaveProfile(profile extraction.StoredProfile) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB. It also implements
// extraction.ProfileSource via LoadProfiles, so the same file backs both the
// parse history and the vendor pattern store.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	// Create buckets if they don't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(invoiceBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(patternBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveInvoice saves a parsed invoice to the database
func (b *BoltDB) SaveInvoice(inv *ParsedInvoice) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucketName))
		data, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("marshaling invoice: %w", err)
		}
		return bucket.Put([]byte(inv.ID), data)
	})
}

// GetInvoice retrieves a parsed invoice by ID
func (b *BoltDB) GetInvoice(id string) (*ParsedInvoice, error) {
	var inv *ParsedInvoice
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("invoice not found: %s", id)
		}
		return json.Unmarshal(data, &inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvoices returns all parsed invoices
func (b *BoltDB) ListInvoices() ([]*ParsedInvoice, error) {
	invoices := make([]*ParsedInvoice, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var inv ParsedInvoice
			if err := json.Unmarshal(v, &inv); err != nil {
				return fmt.Errorf("unmarshaling invoice: %w", err)
			}
			invoices = append(invoices, &inv)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// DeleteInvoice removes a parsed invoice from the database
func (b *BoltDB) DeleteInvoice(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invoiceBucketName))
		return bucket.Delete([]byte(id))
	})
}

// LoadProfiles returns persisted vendor pattern overrides
func (b *BoltDB) LoadProfiles() ([]extraction.StoredProfile, error) {
	profiles := make([]extraction.StoredProfile, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(patternBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var profile extraction.StoredProfile
			if err := json.Unmarshal(v, &profile); err != nil {
				return fmt.Errorf("unmarshaling vendor profile: %w", err)
			}
			profiles = append(profiles, profile)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// SaveProfile persists a vendor pattern override
func (b *BoltDB) SaveProfile(profile extraction.StoredProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("vendor profile name is required")
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(patternBucketName))
		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("marshaling vendor profile: %w", err)
		}
		return bucket.Put([]byte(profile.Name), data)
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
