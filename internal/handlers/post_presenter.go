package handlers

import (
	"context"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
)

// postPresenter decorates posts with counts and the viewer's like/save state
// using one grouped query per attribute.
type postPresenter struct {
	likeRepository      repositories.LikeRepository
	commentRepository   repositories.CommentRepository
	savedPostRepository repositories.SavedPostRepository
}

func (p *postPresenter) present(ctx context.Context, viewer *models.User, posts []models.Post) ([]models.PostResponse, error) {
	ids := make([]uint, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	likeCounts, err := p.likeRepository.GetLikesCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := p.commentRepository.CountCommentsByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := p.likeRepository.GetLikedPostIDs(ctx, viewer.ID, ids)
	if err != nil {
		return nil, err
	}
	saved, err := p.savedPostRepository.GetSavedPostIDs(ctx, viewer.Profile.ID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PostResponse, 0, len(posts))
	for _, post := range posts {
		resp := models.PostResponse{
			ID:            post.ID,
			Title:         post.Title,
			Description:   post.Description,
			Image:         post.Image,
			Tags:          make([]string, 0, len(post.Tags)),
			LikesCount:    likeCounts[post.ID],
			CommentsCount: commentCounts[post.ID],
			Liked:         liked[post.ID],
			Saved:         saved[post.ID],
			CreatedAt:     post.CreatedAt,
		}
		if post.User != nil {
			author := post.User.ToCompact()
			resp.User = &author
		}
		for _, tag := range post.Tags {
			resp.Tags = append(resp.Tags, tag.Name)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (p *postPresenter) presentOne(ctx context.Context, viewer *models.User, post *models.Post) (*models.PostResponse, error) {
	out, err := p.present(ctx, viewer, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}
