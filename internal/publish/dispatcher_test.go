package publish

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	token bool
	calls []string
	// failWith maps group ids to forced errors.
	failWith map[string]error
}

func (f *fakePoster) HasToken() bool { return f.token }

func (f *fakePoster) PostToGroupFeed(_ context.Context, groupID, _ string) (string, error) {
	f.calls = append(f.calls, groupID)
	if err, ok := f.failWith[groupID]; ok {
		return "", err
	}
	return fmt.Sprintf("%s_post", groupID), nil
}

func TestDispatchMissingTokenShortCircuits(t *testing.T) {
	poster := &fakePoster{token: false}
	dispatcher := NewDispatcher(poster, nil, nil)

	targets := []Target{{GroupID: "g1"}, {GroupID: "g2"}, {GroupID: "g3"}}
	results := dispatcher.Dispatch(context.Background(), "hello", targets)

	require.Len(t, results, len(targets))
	assert.Empty(t, poster.calls, "no network attempts without a credential")
	for i, result := range results {
		assert.Equal(t, targets[i].GroupID, result.GroupID)
		assert.False(t, result.OK)
		require.NotNil(t, result.Error)
		assert.Equal(t, ErrMissingToken, *result.Error)
		assert.Nil(t, result.PostID)
	}
}

func TestDispatchIndependentAttempts(t *testing.T) {
	poster := &fakePoster{
		token:    true,
		failWith: map[string]error{"g2": errors.New("(#368) Temporarily blocked")},
	}
	dispatcher := NewDispatcher(poster, nil, nil)

	results := dispatcher.Dispatch(context.Background(), "hello", []Target{
		{GroupID: "g1"}, {GroupID: "g2"}, {GroupID: "g3"},
	})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"g1", "g2", "g3"}, poster.calls, "a failure must not stop later targets")

	assert.True(t, results[0].OK)
	require.NotNil(t, results[0].PostID)
	assert.Equal(t, "g1_post", *results[0].PostID)

	assert.False(t, results[1].OK)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "(#368) Temporarily blocked", *results[1].Error)
	assert.Nil(t, results[1].PostID)

	assert.True(t, results[2].OK)
}

func TestDispatchPreservesInputOrder(t *testing.T) {
	poster := &fakePoster{token: true}
	dispatcher := NewDispatcher(poster, nil, nil)

	targets := []Target{{GroupID: "z"}, {GroupID: "a"}, {GroupID: "m"}}
	results := dispatcher.Dispatch(context.Background(), "hello", targets)

	require.Len(t, results, 3)
	for i, target := range targets {
		assert.Equal(t, target.GroupID, results[i].GroupID)
	}
}

func TestDispatchNoTargets(t *testing.T) {
	dispatcher := NewDispatcher(&fakePoster{token: true}, nil, nil)
	results := dispatcher.Dispatch(context.Background(), "hello", nil)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}
