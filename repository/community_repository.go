package repository

import (
	"context"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostFilter struct {
	GroupID *uint
	Page    Page
}

type CommunityRepository interface {
	CreateGroup(ctx context.Context, group *models.CommunityGroup) error
	FindGroup(ctx context.Context, id uint) (*models.CommunityGroup, error)
	ListPublicGroups(ctx context.Context, page Page) ([]models.CommunityGroup, error)

	CreatePost(ctx context.Context, post *models.CommunityPost) error
	FindPost(ctx context.Context, id uint) (*models.CommunityPost, error)
	SavePost(ctx context.Context, post *models.CommunityPost) error
	DeletePost(ctx context.Context, post *models.CommunityPost) error
	ListPosts(ctx context.Context, filter PostFilter) ([]models.CommunityPost, error)

	CreateReply(ctx context.Context, reply *models.CommunityReply) error
	FindReply(ctx context.Context, id uint) (*models.CommunityReply, error)
	DeleteReply(ctx context.Context, reply *models.CommunityReply) error
	ListReplies(ctx context.Context, postID uint, page Page) ([]models.CommunityReply, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) CreateGroup(ctx context.Context, group *models.CommunityGroup) error {
	return translate(r.db.WithContext(ctx).Create(group).Error)
}

func (r *communityRepository) FindGroup(ctx context.Context, id uint) (*models.CommunityGroup, error) {
	var group models.CommunityGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (r *communityRepository) ListPublicGroups(ctx context.Context, page Page) ([]models.CommunityGroup, error) {
	var groups []models.CommunityGroup
	q := r.db.WithContext(ctx).Where("is_private = ?", false).Order("created_at DESC")
	err := page.apply(q).Find(&groups).Error
	return groups, translate(err)
}

func (r *communityRepository) CreatePost(ctx context.Context, post *models.CommunityPost) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).First(&post.Author, post.AuthorID).Error)
}

func (r *communityRepository) FindPost(ctx context.Context, id uint) (*models.CommunityPost, error) {
	var post models.CommunityPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *communityRepository) SavePost(ctx context.Context, post *models.CommunityPost) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error)
}

func (r *communityRepository) DeletePost(ctx context.Context, post *models.CommunityPost) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.CommunityReply{}).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(post).Error)
	})
}

func (r *communityRepository) ListPosts(ctx context.Context, filter PostFilter) ([]models.CommunityPost, error) {
	q := r.db.WithContext(ctx).Preload("Author")
	if filter.GroupID != nil {
		q = q.Where("group_id = ?", *filter.GroupID)
	}
	var posts []models.CommunityPost
	err := filter.Page.apply(q.Order("created_at DESC")).Find(&posts).Error
	return posts, translate(err)
}

func (r *communityRepository) CreateReply(ctx context.Context, reply *models.CommunityReply) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reply).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).First(&reply.Author, reply.AuthorID).Error)
}

func (r *communityRepository) FindReply(ctx context.Context, id uint) (*models.CommunityReply, error) {
	var reply models.CommunityReply
	if err := r.db.WithContext(ctx).Preload("Author").First(&reply, id).Error; err != nil {
		return nil, translate(err)
	}
	return &reply, nil
}

func (r *communityRepository) DeleteReply(ctx context.Context, reply *models.CommunityReply) error {
	return translate(r.db.WithContext(ctx).Delete(reply).Error)
}

func (r *communityRepository) ListReplies(ctx context.Context, postID uint, page Page) ([]models.CommunityReply, error) {
	var replies []models.CommunityReply
	q := r.db.WithContext(ctx).Preload("Author").Where("post_id = ?", postID).Order("created_at ASC")
	err := page.apply(q).Find(&replies).Error
	return replies, translate(err)
}
