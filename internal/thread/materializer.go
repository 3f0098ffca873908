package thread

import (
	"context"
	"errors"
	"fmt"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// Source is the read side of the comment store
type Source interface {
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
}

// Materializer expands a comment into its full reply thread
type Materializer struct {
	source   Source
	maxDepth int
}

type Option func(*Materializer)

// WithMaxDepth stops expansion below the given depth. Zero means unbounded.
func WithMaxDepth(depth int) Option {
	return func(m *Materializer) {
		m.maxDepth = depth
	}
}

func NewMaterializer(source Source, opts ...Option) *Materializer {
	m := &Materializer{source: source}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load builds the arena of every comment on a post
func (m *Materializer) Load(ctx context.Context, postID uint) (*Arena, error) {
	comments, err := m.source.ListCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}
	return NewArena(comments), nil
}

// Replies returns every direct and transitive reply of commentID in
// reply-group order, together with the arena they were read from.
func (m *Materializer) Replies(ctx context.Context, commentID uint) ([]Entry, *Arena, error) {
	root, err := m.source.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommentNotFound
		}
		return nil, nil, fmt.Errorf("get comment %d: %w", commentID, err)
	}

	arena, err := m.Load(ctx, root.PostID)
	if err != nil {
		return nil, nil, err
	}
	entries, ok := arena.Replies(commentID, m.maxDepth)
	if !ok {
		// deleted between the two reads
		return nil, nil, ErrCommentNotFound
	}
	return entries, arena, nil
}
