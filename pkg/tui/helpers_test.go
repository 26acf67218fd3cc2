package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ringnet/console/pkg/models"
)

func TestNextNodeID(t *testing.T) {
	assert.Equal(t, "node-1", nextNodeID(nil))

	nodes := []models.Node{{NodeID: "node-1"}, {NodeID: "node-3"}}
	assert.Equal(t, "node-2", nextNodeID(nodes))

	nodes = append(nodes, models.Node{NodeID: "node-2"})
	assert.Equal(t, "node-4", nextNodeID(nodes))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	assert.Equal(t, "this is a…", truncate("this is a long string", 10))
}

func TestCycleIndex(t *testing.T) {
	assert.Equal(t, 0, cycleIndex(0, 0, "right"))
	assert.Equal(t, 1, cycleIndex(0, 3, "right"))
	assert.Equal(t, 2, cycleIndex(0, 3, "left"))
	assert.Equal(t, 0, cycleIndex(2, 3, "right"))
	assert.Equal(t, 1, cycleIndex(1, 3, "x"))
}

func TestFilterMessages(t *testing.T) {
	messages := []models.Message{
		{MessageID: "m1", SourceNodeID: "node-1", Content: "hello world"},
		{MessageID: "m2", SourceNodeID: "node-2", Content: "status report"},
	}

	assert.Len(t, filterMessages(messages, ""), 2)
	assert.Len(t, filterMessages(messages, "hello"), 1)
	assert.Len(t, filterMessages(messages, "node-2"), 1)
	assert.Empty(t, filterMessages(messages, "missing"))
}
