package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketHistory = "history"
)

type Persistence interface {
	Init() error

	// SaveSamples appends the given samples to the stored history of a loop.
	// Samples with an already stored index are overwritten.
	SaveSamples(loopId string, samples []pid.Sample) error
	// LoadSamples returns the stored history of a loop ordered by index.
	LoadSamples(loopId string) ([]pid.Sample, error)
	DeleteSamples(loopId string) error
	// LoopIds returns the ids of all loops with stored history
	LoopIds() ([]string, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func sampleKey(index int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(index))
	return key
}

func (p persistence) SaveSamples(loopId string, samples []pid.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(BucketHistory))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		b, err := root.CreateBucketIfNotExists([]byte(loopId))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		for _, sample := range samples {
			data, err := json.Marshal(sample)
			if err != nil {
				return err
			}
			err = b.Put(sampleKey(sample.Index), data)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (p persistence) LoadSamples(loopId string) ([]pid.Sample, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var samples []pid.Sample
	err = db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketHistory))
		if root == nil {
			return os.ErrNotExist
		}
		b := root.Bucket([]byte(loopId))
		if b == nil {
			return os.ErrNotExist
		}

		// keys are big endian indices, so the cursor iterates in call order
		return b.ForEach(func(k, v []byte) error {
			var sample pid.Sample
			if err := json.Unmarshal(v, &sample); err != nil {
				ui.Warning("Skipping unreadable history entry %d of loop %s: %v", binary.BigEndian.Uint64(k), loopId, err)
				return nil
			}
			samples = append(samples, sample)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return samples, nil
}

func (p persistence) DeleteSamples(loopId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketHistory))
		if root == nil {
			// no history stored yet
			return nil
		}
		if root.Bucket([]byte(loopId)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(loopId))
	})
}

func (p persistence) LoopIds() ([]string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var ids []string
	err = db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketHistory))
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			// nested buckets have a nil value
			if v == nil {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	return ids, err
}
