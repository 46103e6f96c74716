package storage

import (
	"fmt"

	"teachtimer/internal/core/model"
)

// Store loads and saves snapshots.
type Store interface {
	Load() (model.Snapshot, error)
	Save(snapshot model.Snapshot) error
	Close() error
}

// Open returns a store for driver at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverYAML:
		return NewYAMLStore(path), nil
	case DriverSQLite:
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
