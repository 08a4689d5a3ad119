package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationsAppendAndHistory(t *testing.T) {
	c := NewConversations(time.Hour)

	c.Append("s1", RoleUser, "oi")
	c.Append("s1", RoleBot, "olá")
	c.Append("s2", RoleUser, "outra sessão")

	history := c.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "oi", history[0].Text)
	assert.Equal(t, RoleBot, history[1].Role)

	assert.Len(t, c.History("s2"), 1)
	assert.Nil(t, c.History("unknown"))
}

func TestConversationsHistoryIsACopy(t *testing.T) {
	c := NewConversations(time.Hour)
	c.Append("s1", RoleUser, "original")

	history := c.History("s1")
	history[0].Text = "mutated"

	assert.Equal(t, "original", c.History("s1")[0].Text)
}

func TestConversationsIgnoresEmptySessionID(t *testing.T) {
	c := NewConversations(time.Hour)
	c.Append("", RoleUser, "sem sessão")

	assert.Equal(t, 0, c.ActiveSessions())
}

func TestConversationsClear(t *testing.T) {
	c := NewConversations(time.Hour)
	c.Append("s1", RoleUser, "oi")

	c.Clear("s1")

	assert.Nil(t, c.History("s1"))
	assert.Equal(t, 0, c.ActiveSessions())
}

func TestConversationsSweep(t *testing.T) {
	c := NewConversations(10 * time.Millisecond)
	c.Append("old", RoleUser, "mensagem antiga")

	time.Sleep(30 * time.Millisecond)
	c.Append("fresh", RoleUser, "mensagem nova")

	removed := c.Sweep()

	assert.Equal(t, 1, removed)
	assert.Nil(t, c.History("old"))
	require.Len(t, c.History("fresh"), 1)
}
