package navsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBridge_SingleVisitNeedsNothing(t *testing.T) {
	b := NewBridge()
	b.RecordVisit(101)

	sig := b.ConsumePendingSignal()
	assert.False(t, sig.ShouldScroll)
	assert.False(t, sig.ShouldRefresh)
	assert.Zero(t, sig.ArticleID)
}

func TestBridge_SwitchedVisitScrollsOnce(t *testing.T) {
	b := NewBridge()
	b.RecordVisit(101)
	b.RecordVisit(103)

	sig := b.ConsumePendingSignal()
	assert.True(t, sig.ShouldScroll)
	assert.True(t, sig.ShouldRefresh)
	assert.Equal(t, int64(103), sig.ArticleID)

	// The consuming read clears everything; a second read sees nothing.
	again := b.ConsumePendingSignal()
	assert.False(t, again.ShouldScroll)
	assert.False(t, again.ShouldRefresh)
	assert.Zero(t, again.ArticleID)
}

func TestBridge_ReturningToTheFirstArticleStillCounts(t *testing.T) {
	b := NewBridge()
	b.RecordVisit(101)
	b.RecordVisit(103)
	b.RecordVisit(101)

	sig := b.ConsumePendingSignal()
	assert.True(t, sig.ShouldScroll)
	assert.Equal(t, int64(101), sig.ArticleID, "scroll target follows the last viewed article")
}

func TestBridge_RepeatedVisitToSameArticleIsNotASwitch(t *testing.T) {
	b := NewBridge()
	b.RecordVisit(101)
	b.RecordVisit(101)
	b.RecordVisit(101)

	sig := b.ConsumePendingSignal()
	assert.False(t, sig.ShouldScroll)
	assert.False(t, sig.ShouldRefresh)
}

func TestBridge_NewSessionAfterConsume(t *testing.T) {
	b := NewBridge()
	b.RecordVisit(1)
	b.RecordVisit(2)
	b.ConsumePendingSignal()

	b.RecordVisit(7)
	b.RecordVisit(9)

	sig := b.ConsumePendingSignal()
	assert.True(t, sig.ShouldScroll)
	assert.Equal(t, int64(9), sig.ArticleID)
}

func TestBridge_SourceRequestConsumedOnce(t *testing.T) {
	b := NewBridge()

	_, ok := b.ConsumePendingSource()
	assert.False(t, ok)

	b.RequestSource(4, "Hacker News")
	req, ok := b.ConsumePendingSource()
	assert.True(t, ok)
	assert.Equal(t, SourceRequest{SourceID: 4, Name: "Hacker News"}, req)

	_, ok = b.ConsumePendingSource()
	assert.False(t, ok)
}

func TestBridge_LaterSourceRequestReplacesEarlier(t *testing.T) {
	b := NewBridge()
	b.RequestSource(1, "Old")
	b.RequestSource(2, "New")

	req, ok := b.ConsumePendingSource()
	assert.True(t, ok)
	assert.Equal(t, int64(2), req.SourceID)
}
