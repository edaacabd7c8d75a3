package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/services"
)

type CommunityHandler struct {
	community *services.CommunityService
}

func NewCommunityHandler(community *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	IsPrivate   bool    `json:"is_private"`
}

type CreatePostRequest struct {
	GroupID uint   `json:"group_id" validate:"required"`
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Content *string `json:"content"`
}

type CreateReplyRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *CommunityHandler) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	group, err := h.community.CreateGroup(c.UserContext(), middleware.CurrentUser(c), services.GroupInput{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *CommunityHandler) ListGroups(c *fiber.Ctx) error {
	groups, err := h.community.ListGroups(c.UserContext(), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(groups)
}

func (h *CommunityHandler) GetGroup(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	group, err := h.community.GetGroup(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(group)
}

func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	post, err := h.community.CreatePost(c.UserContext(), middleware.CurrentUser(c), services.PostInput{
		GroupID: req.GroupID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *CommunityHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.community.ListPosts(c.UserContext(), optionalID(c, "group_id"), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (h *CommunityHandler) GetPost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.community.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (h *CommunityHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	post, err := h.community.UpdatePost(c.UserContext(), middleware.CurrentUser(c), id, services.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (h *CommunityHandler) DeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.community.DeletePost(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CommunityHandler) CreateReply(c *fiber.Ctx) error {
	var req CreateReplyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reply, err := h.community.CreateReply(c.UserContext(), middleware.CurrentUser(c), services.ReplyInput{
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (h *CommunityHandler) ListReplies(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	replies, err := h.community.ListReplies(c.UserContext(), id, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(replies)
}

func (h *CommunityHandler) GetReply(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	reply, err := h.community.GetReply(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(reply)
}

func (h *CommunityHandler) DeleteReply(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.community.DeleteReply(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
