package database

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

func NewMemcached(server string, timeout time.Duration) (*memcache.Client, error) {
	mc := memcache.New(server)
	if timeout > 0 {
		mc.Timeout = timeout
	}
	if err := mc.Ping(); err != nil {
		return nil, errors.Wrapf(err, "failed to reach memcached at %s", server)
	}
	return mc, nil
}
