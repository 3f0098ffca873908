package repositories

import (
	"context"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPostRepository defines the interface for saved post operations
type SavedPostRepository interface {
	ToggleSavedPost(ctx context.Context, profileID, postID uint) (bool, error)
	IsPostSaved(ctx context.Context, profileID, postID uint) (bool, error)
	GetSavedPostsByProfile(ctx context.Context, profileID uint) ([]models.SavedPost, error)
	GetSavedPostIDs(ctx context.Context, profileID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// ToggleSavedPost unsaves the post if it is saved, otherwise saves it, and
// reports whether the post is saved afterwards.
func (r *PostgresSavedPostRepository) ToggleSavedPost(ctx context.Context, profileID, postID uint) (bool, error) {
	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_profile_id = ? AND post_id = ?", profileID, postID).Delete(&models.SavedPost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		entry := &models.SavedPost{UserProfileID: profileID, PostID: postID}
		if err := tx.Omit("Post").Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}

func (r *PostgresSavedPostRepository) IsPostSaved(ctx context.Context, profileID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavedPost{}).
		Where("user_profile_id = ? AND post_id = ?", profileID, postID).
		Count(&count).Error
	return count > 0, err
}

// GetSavedPostsByProfile lists saves newest first
func (r *PostgresSavedPostRepository) GetSavedPostsByProfile(ctx context.Context, profileID uint) ([]models.SavedPost, error) {
	var saved []models.SavedPost
	err := r.db.WithContext(ctx).
		Where("user_profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Find(&saved).Error
	return saved, err
}

func (r *PostgresSavedPostRepository) GetSavedPostIDs(ctx context.Context, profileID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var saved []uint
	err := r.db.WithContext(ctx).Model(&models.SavedPost{}).
		Where("user_profile_id = ? AND post_id IN ?", profileID, postIDs).
		Pluck("post_id", &saved).Error
	if err != nil {
		return nil, err
	}
	for _, id := range saved {
		result[id] = true
	}
	return result, nil
}
