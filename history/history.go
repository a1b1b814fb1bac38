// Package history keeps a small local log of how past mounts settled.
package history

import (
	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
)

// Limit is the number of records kept; older ones are dropped first.
const Limit = 100

// cacher provides a disk-backed store for mount records.
var cacher = gache.New[[]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every stored record, oldest first.
func Get() ([]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Record{}, nil
	}
	return cached, nil
}

// Save appends record unless saving history is disabled.
func Save(record *Record) error {
	if !viper.GetBool(key.HistorySave) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	saved = append(saved, record)
	if len(saved) > Limit {
		saved = saved[len(saved)-Limit:]
	}

	return cacher.Set(saved)
}

// Clear removes every record.
func Clear() error {
	return cacher.Set([]*Record{})
}
