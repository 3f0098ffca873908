package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, NewPostgresUserRepository(db).CreateUser(context.Background(), user))
	return user
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, title string, tags ...string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, UserID: &author.ID}
	require.NoError(t, NewPostgresPostRepository(db).CreatePost(context.Background(), post, tags))
	return post
}

func createComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, parentID *uint, at time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: post.ID, UserID: author.ID, ParentID: parentID, Content: "hi", CreatedAt: at}
	require.NoError(t, NewPostgresCommentRepository(db).CreateComment(context.Background(), comment))
	return comment
}

func TestUserRepositoryCreateUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.GenderPreferNotSay, user.Profile.Gender)

	loaded, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, user.Profile.ID, loaded.Profile.ID)

	exists, err := repo.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	db := testutil.NewDB(t)
	createUser(t, db, "alice")

	dup := &models.User{Username: "alice", Email: "other@example.com", Password: "hash"}
	err := NewPostgresUserRepository(db).CreateUser(context.Background(), dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.UserProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFollowRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresFollowRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, repo.Follow(ctx, alice.Profile.ID, bob.Profile.ID))
	require.NoError(t, repo.Follow(ctx, alice.Profile.ID, bob.Profile.ID))

	followers, err := repo.GetFollowersCount(ctx, bob.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	following, err := repo.GetFollowingCount(ctx, alice.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)
	ok, err := repo.IsFollowing(ctx, alice.Profile.ID, bob.Profile.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Unfollow(ctx, alice.Profile.ID, bob.Profile.ID))
	require.NoError(t, repo.Unfollow(ctx, alice.Profile.ID, bob.Profile.ID))
	ok, err = repo.IsFollowing(ctx, alice.Profile.ID, bob.Profile.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTogglePostLike(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, "hello")

	liked, count, err := repo.TogglePostLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = repo.TogglePostLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(2), count)

	liked, count, err = repo.TogglePostLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(1), count)

	counts, err := repo.GetLikesCounts(ctx, []uint{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[post.ID])
	likedIDs, err := repo.GetLikedPostIDs(ctx, alice.ID, []uint{post.ID})
	require.NoError(t, err)
	assert.True(t, likedIDs[post.ID])
	likedIDs, err = repo.GetLikedPostIDs(ctx, bob.ID, []uint{post.ID})
	require.NoError(t, err)
	assert.False(t, likedIDs[post.ID])
}

func TestToggleSavedPost(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresSavedPostRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	first := createPost(t, db, alice, "first")
	second := createPost(t, db, alice, "second")

	saved, err := repo.ToggleSavedPost(ctx, alice.Profile.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	saved, err = repo.ToggleSavedPost(ctx, alice.Profile.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	list, err := repo.GetSavedPostsByProfile(ctx, alice.Profile.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].PostID)

	saved, err = repo.ToggleSavedPost(ctx, alice.Profile.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, saved)
	ok, err := repo.IsPostSaved(ctx, alice.Profile.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostRepositoryTags(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	first := createPost(t, db, alice, "first", "go", "web")
	second := createPost(t, db, alice, "second", "go")
	createPost(t, db, alice, "third")

	tag, err := NewPostgresTagRepository(db).GetTagByName(ctx, "go")
	require.NoError(t, err)
	posts, err := repo.ListPostsByTag(ctx, tag.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, []uint{posts[0].ID, posts[1].ID})

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)

	loaded, err := repo.GetPostByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Tags, 2)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "alice", loaded.User.Username)

	_, err = NewPostgresTagRepository(db).GetTagByName(ctx, "rust")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepositoryListing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	a := createPost(t, db, alice, "a")
	b := createPost(t, db, bob, "b")
	c := createPost(t, db, alice, "c")

	page, err := repo.ListPosts(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, c.ID, page[0].ID)
	assert.Equal(t, b.ID, page[1].ID)

	page, err = repo.ListPosts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, a.ID, page[0].ID)

	count, err := repo.CountPostsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	byIDs, err := repo.ListPostsByIDs(ctx, []uint{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, b.ID, byIDs[0].ID)
	assert.Equal(t, a.ID, byIDs[1].ID)
}

func TestDeletePostRemovesDependents(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice, "doomed", "go")
	keep := createPost(t, db, alice, "keep", "go")

	comment := createComment(t, db, post, alice, nil, time.Now())
	require.NoError(t, NewPostgresCommentLikeRepository(db).AddLike(ctx, comment.ID, alice.ID))
	_, _, err := NewPostgresLikeRepository(db).TogglePostLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	_, err = NewPostgresSavedPostRepository(db).ToggleSavedPost(ctx, alice.Profile.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeletePost(ctx, post.ID))

	for _, model := range []interface{}{&models.Comment{}, &models.CommentLike{}, &models.PostLike{}, &models.SavedPost{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
	_, err = repo.GetPostByID(ctx, keep.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeletePost(ctx, post.ID), gorm.ErrRecordNotFound)
}

func TestCommentRepositoryLikeCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostgresCommentRepository(db)
	likes := NewPostgresCommentLikeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, "post")

	base := time.Now().Add(-time.Hour)
	first := createComment(t, db, post, alice, nil, base)
	reply := createComment(t, db, post, bob, &first.ID, base.Add(time.Minute))

	require.NoError(t, likes.AddLike(ctx, first.ID, alice.ID))
	require.NoError(t, likes.AddLike(ctx, first.ID, bob.ID))
	require.NoError(t, likes.AddLike(ctx, first.ID, bob.ID))

	loaded, err := repo.GetCommentByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.LikeCount)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "alice", loaded.User.Username)

	all, err := repo.ListCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, reply.ID, all[1].ID)
	assert.Equal(t, int64(0), all[1].LikeCount)

	require.NoError(t, likes.RemoveLike(ctx, first.ID, bob.ID))
	count, err := likes.CountLikes(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err := likes.GetLikedCommentIDs(ctx, alice.ID, []uint{first.ID, reply.ID})
	require.NoError(t, err)
	assert.True(t, liked[first.ID])
	assert.False(t, liked[reply.ID])

	link, err := repo.GetCommentLink(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, link.PostID)
	require.NotNil(t, link.ParentID)
	assert.Equal(t, first.ID, *link.ParentID)
	assert.Empty(t, link.Content)

	counts, err := repo.CountCommentsByPostIDs(ctx, []uint{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[post.ID])

	require.NoError(t, repo.DeleteComments(ctx, []uint{first.ID, reply.ID}))
	_, err = repo.GetCommentByID(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	count, err = likes.CountLikes(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostgresTokenBlacklist(t *testing.T) {
	db := testutil.NewDB(t)
	blacklist := NewPostgresTokenBlacklist(db)
	ctx := context.Background()
	now := time.Now()

	ok, err := blacklist.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, blacklist.Add(ctx, "abc", now.Add(time.Hour)))
	require.NoError(t, blacklist.Add(ctx, "abc", now.Add(time.Hour)))
	require.NoError(t, blacklist.Add(ctx, "old", now.Add(-time.Hour)))

	ok, err = blacklist.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := blacklist.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	ok, err = blacklist.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
}
