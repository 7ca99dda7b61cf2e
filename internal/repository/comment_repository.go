package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	itemDomain "github.com/peershare/service-rental/internal/domain/item"
)

// CommentModel is the GORM model for the comments table. The author's name
// is joined in from the users table on reads.
type CommentModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Text     string    `gorm:"not null;size:2000"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null;index"`
	Created  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

type commentRow struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	Created    time.Time
	AuthorName string
}

// GormCommentRepository is the GORM-based implementation of CommentRepository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments").
		Select("comments.*, users.name AS author_name").
		Joins("JOIN users ON users.id = comments.author_id")
}

// FindByItemID retrieves all comments on an item, oldest first.
func (r *GormCommentRepository) FindByItemID(ctx context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	var rows []commentRow
	if err := r.joined(ctx).
		Where("comments.item_id = ?", itemID).
		Order("comments.created ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments by item: %w", err)
	}
	return toDomainComments(rows), nil
}

// FindByItemIDAndAuthorID retrieves an author's comments on an item.
func (r *GormCommentRepository) FindByItemIDAndAuthorID(ctx context.Context, itemID, authorID int64) ([]*itemDomain.Comment, error) {
	var rows []commentRow
	if err := r.joined(ctx).
		Where("comments.item_id = ? AND comments.author_id = ?", itemID, authorID).
		Order("comments.created ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments by item and author: %w", err)
	}
	return toDomainComments(rows), nil
}

// Save persists a new comment and returns it with the store-assigned id.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) (*itemDomain.Comment, error) {
	model := &CommentModel{
		Text:     c.Text(),
		ItemID:   c.ItemID(),
		AuthorID: c.AuthorID(),
		Created:  c.Created(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return itemDomain.ReconstructComment(
		model.ID,
		model.Text,
		model.ItemID,
		model.AuthorID,
		c.AuthorName(),
		model.Created,
	), nil
}

func toDomainComments(rows []commentRow) []*itemDomain.Comment {
	comments := make([]*itemDomain.Comment, len(rows))
	for i, row := range rows {
		comments[i] = itemDomain.ReconstructComment(
			row.ID,
			row.Text,
			row.ItemID,
			row.AuthorID,
			row.AuthorName,
			row.Created,
		)
	}
	return comments
}
