package services

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/search"
	"github.com/talesoul/talesoul-api/websocket"
)

type CommunityService struct {
	community repository.CommunityRepository
	index     search.Index
	events    EventPublisher
	policy    *bluemonday.Policy
	strict    *bluemonday.Policy
}

func NewCommunityService(community repository.CommunityRepository, index search.Index, events EventPublisher) *CommunityService {
	return &CommunityService{
		community: community,
		index:     index,
		events:    events,
		policy:    bluemonday.UGCPolicy(),
		strict:    bluemonday.StrictPolicy(),
	}
}

type GroupInput struct {
	Name        string
	Description *string
	IsPrivate   bool
}

type PostInput struct {
	GroupID uint
	Title   string
	Content string
}

type PostUpdate struct {
	Title   *string
	Content *string
}

type ReplyInput struct {
	PostID  uint
	Content string
}

func (s *CommunityService) text(v string) (string, error) {
	clean := strings.TrimSpace(s.policy.Sanitize(v))
	if clean == "" {
		return "", apperror.BadRequest("content cannot be empty")
	}
	return clean, nil
}

func (s *CommunityService) title(v string) (string, error) {
	clean := strings.TrimSpace(s.strict.Sanitize(v))
	if clean == "" {
		return "", apperror.BadRequest("title cannot be empty")
	}
	return clean, nil
}

func (s *CommunityService) CreateGroup(ctx context.Context, actor *models.User, in GroupInput) (*models.CommunityGroup, error) {
	name, err := s.title(in.Name)
	if err != nil {
		return nil, err
	}
	group := &models.CommunityGroup{
		Name:        name,
		Description: trimmed(in.Description),
		IsPrivate:   in.IsPrivate,
	}
	if group.Description != nil {
		d := s.policy.Sanitize(*group.Description)
		group.Description = &d
	}
	if err := s.community.CreateGroup(ctx, group); err != nil {
		return nil, apperror.Internal(err)
	}
	return group, nil
}

func (s *CommunityService) ListGroups(ctx context.Context, page repository.Page) ([]models.CommunityGroup, error) {
	groups, err := s.community.ListPublicGroups(ctx, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return groups, nil
}

func (s *CommunityService) GetGroup(ctx context.Context, id uint) (*models.CommunityGroup, error) {
	group, err := s.community.FindGroup(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "group not found")
	}
	return group, nil
}

func (s *CommunityService) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.CommunityPost, error) {
	if _, err := s.GetGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	title, err := s.title(in.Title)
	if err != nil {
		return nil, err
	}
	content, err := s.text(in.Content)
	if err != nil {
		return nil, err
	}
	post := &models.CommunityPost{
		GroupID:  in.GroupID,
		AuthorID: actor.ID,
		Title:    title,
		Content:  content,
	}
	if err := s.community.CreatePost(ctx, post); err != nil {
		return nil, apperror.Internal(err)
	}
	post.Author = *actor
	s.index.IndexPost(ctx, post)
	return post, nil
}

func (s *CommunityService) ListPosts(ctx context.Context, groupID *uint, page repository.Page) ([]models.CommunityPost, error) {
	posts, err := s.community.ListPosts(ctx, repository.PostFilter{GroupID: groupID, Page: page})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}

func (s *CommunityService) GetPost(ctx context.Context, id uint) (*models.CommunityPost, error) {
	post, err := s.community.FindPost(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "post not found")
	}
	return post, nil
}

func (s *CommunityService) UpdatePost(ctx context.Context, actor *models.User, id uint, in PostUpdate) (*models.CommunityPost, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionPostUpdate, auth.OwnerRelation(actor.ID, post.AuthorID)); err != nil {
		return nil, err
	}
	if in.Title != nil {
		if post.Title, err = s.title(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Content != nil {
		if post.Content, err = s.text(*in.Content); err != nil {
			return nil, err
		}
	}
	if err := s.community.SavePost(ctx, post); err != nil {
		return nil, apperror.Internal(err)
	}
	s.index.IndexPost(ctx, post)
	return post, nil
}

func (s *CommunityService) DeletePost(ctx context.Context, actor *models.User, id uint) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actor, auth.ActionPostDelete, auth.OwnerRelation(actor.ID, post.AuthorID)); err != nil {
		return err
	}
	if err := s.community.DeletePost(ctx, post); err != nil {
		return apperror.Internal(err)
	}
	s.index.RemovePost(ctx, post.ID)
	return nil
}

// CreateReply adds a reply and notifies the post author when someone else replied.
func (s *CommunityService) CreateReply(ctx context.Context, actor *models.User, in ReplyInput) (*models.CommunityReply, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	content, err := s.text(in.Content)
	if err != nil {
		return nil, err
	}
	reply := &models.CommunityReply{
		PostID:   post.ID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := s.community.CreateReply(ctx, reply); err != nil {
		return nil, apperror.Internal(err)
	}
	reply.Author = *actor

	if post.AuthorID != actor.ID {
		s.events.Publish(websocket.Event{Type: websocket.EventCommunityReply, Data: reply}, post.AuthorID)
	}
	return reply, nil
}

func (s *CommunityService) ListReplies(ctx context.Context, postID uint, page repository.Page) ([]models.CommunityReply, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	replies, err := s.community.ListReplies(ctx, postID, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return replies, nil
}

func (s *CommunityService) GetReply(ctx context.Context, id uint) (*models.CommunityReply, error) {
	reply, err := s.community.FindReply(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "reply not found")
	}
	return reply, nil
}

func (s *CommunityService) DeleteReply(ctx context.Context, actor *models.User, id uint) error {
	reply, err := s.GetReply(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actor, auth.ActionReplyDelete, auth.OwnerRelation(actor.ID, reply.AuthorID)); err != nil {
		return err
	}
	if err := s.community.DeleteReply(ctx, reply); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
