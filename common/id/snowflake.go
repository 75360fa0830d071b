package id

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Node ids per process. Two processes sharing a node id can mint the same id
// within one millisecond.
const (
	NodeServer int64 = 1
	NodeWorker int64 = 2
)

var ErrInvalid = errors.New("invalid id")

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the generator for this process. Later calls are no-ops.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	if err != nil {
		return fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return nil
}

// New returns a time-ordered int64 id. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// Parse reads a decimal id as it appears in URLs and JSON strings.
func Parse(s string) (int64, error) {
	v, err := snowflake.ParseString(s)
	if err != nil || v.Int64() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return v.Int64(), nil
}
