package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/linguamarket-api/internal/models"
)

func TestNotifierFeedNewestFirst(t *testing.T) {
	n := NewNotifier(10)
	n.Publish(models.NotificationSuccess, "first")
	n.Publish(models.NotificationError, "second")
	n.Publish(models.NotificationInfo, "third")

	feed := n.Feed(0)
	require.Len(t, feed, 3)
	assert.Equal(t, "third", feed[0].Message)
	assert.Equal(t, "first", feed[2].Message)

	limited := n.Feed(2)
	require.Len(t, limited, 2)
	assert.Equal(t, "third", limited[0].Message)
}

func TestNotifierBoundedCapacity(t *testing.T) {
	n := NewNotifier(3)
	for i := 0; i < 5; i++ {
		n.Publish(models.NotificationInfo, fmt.Sprintf("event %d", i))
	}

	feed := n.Feed(0)
	require.Len(t, feed, 3)
	assert.Equal(t, "event 4", feed[0].Message)
	assert.Equal(t, "event 2", feed[2].Message)
}

func TestPublishReturnsEvent(t *testing.T) {
	n := NewNotifier(0)
	event := n.Publish(models.NotificationSuccess, "done")
	assert.Equal(t, models.NotificationSuccess, event.Kind)
	assert.Equal(t, "done", event.Message)
	assert.False(t, event.Timestamp.IsZero())
}
