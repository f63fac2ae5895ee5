package comment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfit/internal/book"
	"shelfit/internal/comment"
	"shelfit/internal/testutil"
)

type fixture struct {
	books    *book.Service
	comments *comment.Service
	clock    *testutil.Clock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := testutil.NewClock()
	s := testutil.NewStore(t)
	f := fixture{
		books:    book.NewService(s.Books, book.WithClock(clock.Now)),
		comments: comment.NewService(s.Comments, s.Books, comment.WithClock(clock.Now)),
		clock:    clock,
	}
	_, err := f.books.UpsertFromSource(context.Background(), "alice",
		book.Volume{ID: "abc", VolumeInfo: book.VolumeInfo{Title: "Dune"}}, []byte(`{}`))
	require.NoError(t, err)
	return f
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		c, err := f.comments.Add(ctx, "alice", "abc", "  great book ")
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "great book", c.Text)
		assert.Equal(t, "abc", c.BookID)
		assert.Equal(t, "alice", c.Owner)
		assert.True(t, testutil.Epoch.Equal(c.CreatedAt))
	})

	t.Run("whitespace text creates nothing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.comments.Add(ctx, "alice", "abc", " \n\t")
		assert.ErrorIs(t, err, comment.ErrEmptyText)

		list, err := f.comments.List(ctx, "alice", "abc")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("missing book", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.comments.Add(ctx, "alice", "nope", "hi")
		assert.ErrorIs(t, err, comment.ErrBookNotFound)
	})

	t.Run("other owner's book", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.comments.Add(ctx, "bob", "abc", "hi")
		assert.ErrorIs(t, err, comment.ErrBookNotFound)
	})
}

func TestService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, text := range []string{"first", "second"} {
		_, err := f.comments.Add(ctx, "alice", "abc", text)
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	list, err := f.comments.List(ctx, "alice", "abc")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text)
	assert.Equal(t, "first", list[1].Text)

	_, err = f.comments.List(ctx, "bob", "abc")
	assert.ErrorIs(t, err, comment.ErrBookNotFound)
}

func TestService_ListSameInstantKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, text := range []string{"first", "second", "third"} {
		_, err := f.comments.Add(ctx, "alice", "abc", text)
		require.NoError(t, err)
	}

	list, err := f.comments.List(ctx, "alice", "abc")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{list[0].Text, list[1].Text, list[2].Text})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.comments.Add(ctx, "alice", "abc", "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, f.comments.Delete(ctx, "bob", "abc", c.ID), comment.ErrBookNotFound)
	assert.ErrorIs(t, f.comments.Delete(ctx, "alice", "abc", "missing"), comment.ErrNotFound)
	require.NoError(t, f.comments.Delete(ctx, "alice", "abc", c.ID))
	assert.ErrorIs(t, f.comments.Delete(ctx, "alice", "abc", c.ID), comment.ErrNotFound)
}

func TestService_BookDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.comments.Add(ctx, "alice", "abc", "note")
		require.NoError(t, err)
	}

	require.NoError(t, f.books.Delete(ctx, "alice", "abc"))

	_, err := f.comments.List(ctx, "alice", "abc")
	assert.ErrorIs(t, err, comment.ErrBookNotFound)

	_, err = f.books.UpsertFromSource(ctx, "alice", book.Volume{ID: "abc"}, []byte(`{}`))
	require.NoError(t, err)
	list, err := f.comments.List(ctx, "alice", "abc")
	require.NoError(t, err)
	assert.Empty(t, list, "no orphan comments survive")
}
