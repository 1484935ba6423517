package domain

import (
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	idMu   sync.Mutex
	idNode *snowflake.Node
)

// SetIDNode configures the snowflake machine id used for product IDs.
// Call once at startup; NewID falls back to node 1 when unset.
func SetIDNode(machine int64) error {
	node, err := snowflake.NewNode(machine)
	if err != nil {
		return err
	}
	idMu.Lock()
	idNode = node
	idMu.Unlock()
	return nil
}

// NewID returns an opaque unique product id, base-36 encoded.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	if idNode == nil {
		idNode, _ = snowflake.NewNode(1)
	}
	return strings.ToLower(idNode.Generate().Base36())
}
