package notify

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

var toastPrefix = []byte("toast/")

// BadgerStore persists toasts in Badger. Every entry carries a TTL equal to
// the retention window, so expired toasts disappear without a sweeper.
type BadgerStore struct {
	db        *badger.DB
	retention time.Duration
}

// BadgerOptions 打开 Badger 存储的参数
type BadgerOptions struct {
	Path      string        // 数据目录；InMemory 时忽略
	InMemory  bool          // 仅内存（测试用）
	Retention time.Duration // 通知保留时长
}

// OpenBadger opens (or creates) a toast store.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("notify: badger path is required")
	}
	if opts.Retention <= 0 {
		return nil, errors.New("notify: retention must be positive")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithInMemory(opts.InMemory)
	if opts.InMemory {
		bopts = bopts.WithDir("").WithValueDir("")
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, retention: opts.Retention}, nil
}

// toastKey orders keys by creation time; the id keeps same-nanosecond
// toasts apart.
func toastKey(t Toast) []byte {
	k := make([]byte, 0, len(toastPrefix)+8+16)
	k = append(k, toastPrefix...)
	k = binary.BigEndian.AppendUint64(k, uint64(t.CreatedAt.UnixNano()))
	return append(k, t.ID[:]...)
}

func (s *BadgerStore) Save(_ context.Context, t Toast) error {
	v, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(toastKey(t), v).WithTTL(s.retention))
	})
}

func (s *BadgerStore) Recent(_ context.Context, limit int) ([]Toast, error) {
	out := make([]Toast, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = toastPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// reverse iteration has to start past the last key of the prefix
		seek := append(append([]byte(nil), toastPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(toastPrefix); it.Next() {
			if limit > 0 && len(out) == limit {
				return nil
			}
			var t Toast
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			}); err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
