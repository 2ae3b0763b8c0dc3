// Package id issues the int64 primary keys used by every table.
package id

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// ErrInvalid is returned by Parse for anything that is not a positive id.
var ErrInvalid = errors.New("invalid id")

// Init sets the node this process generates ids under. Replicas sharing a
// database must use distinct node ids (0-1023). Only the first call counts.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered id. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// Parse reads an id as it travels in URLs, cookies and JSON strings.
func Parse(s string) (int64, error) {
	v, err := snowflake.ParseString(s)
	if err != nil || v.Int64() <= 0 {
		return 0, ErrInvalid
	}
	return v.Int64(), nil
}
