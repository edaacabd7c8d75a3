package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
)

const (
	coursesIndex = "courses"
	postsIndex   = "posts"
)

var ErrDisabled = errors.New("search is not configured")

type CourseHit struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	InstructorID   uint    `json:"instructor_id"`
	InstructorName string  `json:"instructor_name"`
	Price          float64 `json:"price"`
	CreatedAt      int64   `json:"created_at"`
}

type PostHit struct {
	ID         uint   `json:"id"`
	GroupID    uint   `json:"group_id"`
	AuthorID   uint   `json:"author_id"`
	AuthorName string `json:"author_name"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"created_at"`
}

// Index keeps the search documents for published courses and community posts.
// Implementations log failures instead of returning them.
type Index interface {
	IndexCourse(ctx context.Context, course *models.Course)
	RemoveCourse(ctx context.Context, id uint)
	IndexPost(ctx context.Context, post *models.CommunityPost)
	RemovePost(ctx context.Context, id uint)
	SearchCourses(ctx context.Context, query string, limit int) ([]CourseHit, error)
	SearchPosts(ctx context.Context, query string, groupID *uint, limit int) ([]PostHit, error)
}

type meiliIndex struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliIndex(host, apiKey string) Index {
	if host == "" {
		return Disabled{}
	}
	return NewMeiliIndexWithClient(meilisearch.New(host, meilisearch.WithAPIKey(apiKey)))
}

func NewMeiliIndexWithClient(client meilisearch.ServiceManager) Index {
	return &meiliIndex{client: client, sanitizer: bluemonday.StrictPolicy()}
}

// Setup configures filterable and sortable attributes. Safe to run on every start.
func Setup(idx Index) {
	m, ok := idx.(*meiliIndex)
	if !ok {
		return
	}
	postFilterable := []any{"group_id", "author_id"}
	if _, err := m.client.Index(postsIndex).UpdateFilterableAttributes(&postFilterable); err != nil {
		loggers.Log.WithError(err).Warn("⚠️ Failed to update posts filterable attributes")
	}
	sortable := []string{"created_at"}
	if _, err := m.client.Index(postsIndex).UpdateSortableAttributes(&sortable); err != nil {
		loggers.Log.WithError(err).Warn("⚠️ Failed to update posts sortable attributes")
	}
	if _, err := m.client.Index(coursesIndex).UpdateSortableAttributes(&sortable); err != nil {
		loggers.Log.WithError(err).Warn("⚠️ Failed to update courses sortable attributes")
	}
	loggers.Log.Info("✅ Meilisearch indexes initialized")
}

func (m *meiliIndex) IndexCourse(_ context.Context, course *models.Course) {
	if !course.IsPublished {
		m.RemoveCourse(context.Background(), course.ID)
		return
	}
	doc := CourseHit{
		ID:             course.ID,
		Title:          m.sanitizer.Sanitize(course.Title),
		InstructorID:   course.InstructorID,
		InstructorName: course.Instructor.FullName,
		Price:          course.Price,
		CreatedAt:      course.CreatedAt.Unix(),
	}
	if course.Description != nil {
		doc.Description = m.sanitizer.Sanitize(*course.Description)
	}
	if _, err := m.client.Index(coursesIndex).AddDocuments([]CourseHit{doc}, strPtr("id")); err != nil {
		loggers.Log.WithError(err).WithField("course_id", course.ID).Error("🔥 Failed to index course")
	}
}

func (m *meiliIndex) RemoveCourse(_ context.Context, id uint) {
	if _, err := m.client.Index(coursesIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		loggers.Log.WithError(err).WithField("course_id", id).Error("🔥 Failed to remove course from index")
	}
}

func (m *meiliIndex) IndexPost(_ context.Context, post *models.CommunityPost) {
	doc := PostHit{
		ID:         post.ID,
		GroupID:    post.GroupID,
		AuthorID:   post.AuthorID,
		AuthorName: post.Author.FullName,
		Title:      m.sanitizer.Sanitize(post.Title),
		Content:    m.sanitizer.Sanitize(post.Content),
		CreatedAt:  post.CreatedAt.Unix(),
	}
	if _, err := m.client.Index(postsIndex).AddDocuments([]PostHit{doc}, strPtr("id")); err != nil {
		loggers.Log.WithError(err).WithField("post_id", post.ID).Error("🔥 Failed to index post")
	}
}

func (m *meiliIndex) RemovePost(_ context.Context, id uint) {
	if _, err := m.client.Index(postsIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
		loggers.Log.WithError(err).WithField("post_id", id).Error("🔥 Failed to remove post from index")
	}
}

type rawResult[T any] struct {
	Hits []T `json:"hits"`
}

func search[T any](client meilisearch.ServiceManager, index, query string, req *meilisearch.SearchRequest) ([]T, error) {
	raw, err := client.Index(index).SearchRaw(query, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	var res rawResult[T]
	if raw != nil {
		if err := json.Unmarshal(*raw, &res); err != nil {
			return nil, fmt.Errorf("decode %s hits: %w", index, err)
		}
	}
	return res.Hits, nil
}

func (m *meiliIndex) SearchCourses(_ context.Context, query string, limit int) ([]CourseHit, error) {
	return search[CourseHit](m.client, coursesIndex, query, &meilisearch.SearchRequest{Limit: int64(limit)})
}

func (m *meiliIndex) SearchPosts(_ context.Context, query string, groupID *uint, limit int) ([]PostHit, error) {
	req := &meilisearch.SearchRequest{Limit: int64(limit), Sort: []string{"created_at:desc"}}
	if groupID != nil {
		req.Filter = fmt.Sprintf("group_id = %d", *groupID)
	}
	return search[PostHit](m.client, postsIndex, query, req)
}

// Disabled is used when no search host is configured.
type Disabled struct{}

func (Disabled) IndexCourse(context.Context, *models.Course) {}
func (Disabled) RemoveCourse(context.Context, uint) {}
func (Disabled) IndexPost(context.Context, *models.CommunityPost) {}
func (Disabled) RemovePost(context.Context, uint) {}

func (Disabled) SearchCourses(context.Context, string, int) ([]CourseHit, error) {
	return nil, ErrDisabled
}

func (Disabled) SearchPosts(context.Context, string, *uint, int) ([]PostHit, error) {
	return nil, ErrDisabled
}

func strPtr(s string) *string {
	return &s
}
